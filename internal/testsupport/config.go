package testsupport

import (
	"path/filepath"
	"testing"

	"customid/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp state directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Logging.Level = "error"
	cfgVal.Wait.Attempts = 3
	cfgVal.Wait.IntervalMS = 1
	cfgVal.Wait.MaxIntervalMS = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStashURL points the config at a (usually fake) Stash server.
func WithStashURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Stash.URL = url
	}
}

// WithAPIKey sets the Stash API key.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Stash.APIKey = key
	}
}

// WithDefaultInstance sets the instance pre-filled by the dialog.
func WithDefaultInstance(instance string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Instance.Default = instance
	}
}

// WithMatchingMode overrides the endpoint matching mode.
func WithMatchingMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.Mode = mode
	}
}

// WithJournal toggles the submission journal.
func WithJournal(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
