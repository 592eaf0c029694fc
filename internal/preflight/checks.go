package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"customid/internal/config"
	"customid/internal/journal"
	"customid/internal/services"
)

// VersionReader is the part of the Stash client the connectivity check needs.
type VersionReader interface {
	Endpoint() string
	Version(ctx context.Context) (string, error)
}

// CheckStash verifies the GraphQL endpoint answers a version query.
func CheckStash(ctx context.Context, stash VersionReader) Result {
	const name = "Stash"
	if stash == nil {
		return Result{Name: name, Detail: "not configured"}
	}
	version, err := stash.Version(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", stash.Endpoint(), summarizeError(err))}
	}
	if version == "" {
		version = "unknown version"
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", stash.Endpoint(), version)}
}

// CheckJournal verifies the journal database opens.
func CheckJournal(cfg *config.Config) Result {
	const name = "Journal"
	store, err := journal.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.JournalPath(), err)}
	}
	_ = store.Close()
	return Result{Name: name, Passed: true, Detail: cfg.JournalPath()}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// summarizeError drops the marker and component prefix added by services.Wrap.
func summarizeError(err error) string {
	msg := err.Error()
	if errors.Is(err, services.ErrLookup) {
		msg = strings.TrimPrefix(msg, services.ErrLookup.Error()+": ")
		msg = strings.TrimPrefix(msg, "stashapp: version: ")
	}
	return msg
}
