package dialog

import "customid/internal/stashids"

// State is the lifecycle position of the dialog.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

// Field identifies an input of the dialog.
type Field int

const (
	FieldNone Field = iota
	FieldInstance
	FieldStashID
)

func (f Field) String() string {
	switch f {
	case FieldInstance:
		return "instance"
	case FieldStashID:
		return "id"
	default:
		return "none"
	}
}

// Confirm button labels.
const (
	LabelConfirm = "OK"
	LabelSaving  = "Saving…"
)

// Fields is a snapshot of the dialog inputs.
type Fields struct {
	Instance string
	StashID  string
	Focus    Field
}

// Controls is a snapshot of the confirm/cancel controls.
type Controls struct {
	Enabled      bool
	ConfirmLabel string
}

// Outcome describes how a completed submission ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeAdded
	OutcomeDuplicate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeDuplicate:
		return "duplicate"
	default:
		return "none"
	}
}

// Result reports a completed submission.
type Result struct {
	CorrelationID string
	SceneID       string
	BaseEndpoint  string
	// Endpoint is the allocated variant; empty for duplicates.
	Endpoint string
	StashID  string
	Outcome  Outcome
	// IDs is the scene's list after the submission.
	IDs stashids.Set
}
