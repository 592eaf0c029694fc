package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"customid/internal/services"
	"customid/internal/testsupport"
)

type fakeVersion struct {
	version string
	err     error
}

func (f fakeVersion) Endpoint() string { return "http://stash.test/graphql" }

func (f fakeVersion) Version(context.Context) (string, error) { return f.version, f.err }

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckStash(t *testing.T) {
	ok := CheckStash(context.Background(), fakeVersion{version: "v0.27.2"})
	if !ok.Passed || !strings.Contains(ok.Detail, "v0.27.2") {
		t.Fatalf("unexpected result: %+v", ok)
	}

	err := services.Wrap(services.ErrLookup, "stashapp", "version", "", errors.New("connection refused"))
	failed := CheckStash(context.Background(), fakeVersion{err: err})
	if failed.Passed {
		t.Fatal("expected failure")
	}
	if !strings.Contains(failed.Detail, "connection refused") || strings.Contains(failed.Detail, "lookup failed") {
		t.Fatalf("unexpected detail: %q", failed.Detail)
	}

	if CheckStash(context.Background(), nil).Passed {
		t.Fatal("expected failure without client")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, nil); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestRunAll_IncludesJournalWhenEnabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg, fakeVersion{version: "v1"})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(results), results)
	}
	if Failed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}
	if results[1].Name != "Journal" {
		t.Fatalf("expected journal check second, got %q", results[1].Name)
	}
}

func TestRunAll_SkipsJournalWhenDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithJournal(false))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg, fakeVersion{err: errors.New("down")})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !Failed(results) {
		t.Fatal("expected stash failure to be reported")
	}
}
