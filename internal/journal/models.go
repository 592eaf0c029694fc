package journal

import "time"

// Outcome is the terminal result of one submission.
type Outcome string

const (
	OutcomeAdded     Outcome = "added"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeFailed    Outcome = "failed"
)

// Entry is one journaled submission.
type Entry struct {
	ID            int64     `json:"id" yaml:"id"`
	CorrelationID string    `json:"correlation_id" yaml:"correlation_id"`
	SceneID       string    `json:"scene_id" yaml:"scene_id"`
	BaseEndpoint  string    `json:"base_endpoint" yaml:"base_endpoint"`
	Endpoint      string    `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	StashID       string    `json:"stash_id" yaml:"stash_id"`
	Outcome       Outcome   `json:"outcome" yaml:"outcome"`
	Error         string    `json:"error,omitempty" yaml:"error,omitempty"`
	RecordedAt    time.Time `json:"recorded_at" yaml:"recorded_at"`
}

// Filter narrows List results. Zero values match everything; Limit <= 0 means
// no limit.
type Filter struct {
	SceneID string
	Limit   int
}
