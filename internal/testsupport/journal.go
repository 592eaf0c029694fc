package testsupport

import (
	"testing"

	"customid/internal/config"
	"customid/internal/journal"
)

// MustOpenJournal opens the journal for cfg and closes it on cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
