package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"customid/internal/config"
	"customid/internal/journal"
	"customid/internal/services"
	"customid/internal/stashids"
	"customid/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	fake       *testsupport.FakeStash
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("STASH_API_KEY", "")
	os.Unsetenv("STASH_API_KEY")

	fake := testsupport.NewFakeStash(t)
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithStashURL(fake.URL())}, opts...)...)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	testsupport.WriteConfigFile(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, fake: fake, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestAddWithFlagsAllocatesVariant(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetScene("12", stashids.Set{{Endpoint: "https://x", StashID: "a"}})

	out, _, err := runCLI(t, []string{"add", "12", "--instance", "https://x", "--id", "b"}, env.configPath, "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out, "Added b as https://x1")
	requireContains(t, out, "Scene 12 stash IDs:")

	stored, _ := env.fake.Scene("12")
	if len(stored) != 2 || stored[1] != (stashids.Record{Endpoint: "https://x1", StashID: "b"}) {
		t.Fatalf("unexpected stored ids: %+v", stored)
	}
}

func TestAddDuplicateWritesNothing(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetScene("12", stashids.Set{{Endpoint: "https://x", StashID: "a"}})

	out, _, err := runCLI(t, []string{"add", "http://stash.local/scenes/12", "--instance", "https://x", "--id", "a"}, env.configPath, "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out, "No change")
	if env.fake.UpdateCalls() != 0 {
		t.Fatalf("expected no updates, got %d", env.fake.UpdateCalls())
	}
}

func TestAddInteractiveUsesConfiguredDefault(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithDefaultInstance("https://x"))
	env.fake.SetScene("3", nil)

	out, _, err := runCLI(t, []string{"add", "3"}, env.configPath, "\nabc\n")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out, "Instance [https://x]: ")
	requireContains(t, out, "Added abc as https://x")
}

func TestAddInteractiveCancel(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetScene("3", nil)

	out, _, err := runCLI(t, []string{"add", "3"}, env.configPath, ":q\n")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out, "Cancelled")
	if env.fake.UpdateCalls() != 0 {
		t.Fatal("expected no updates after cancel")
	}
}

func TestAddPersistFailureReturnsError(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetScene("3", nil)
	env.fake.FailUpdates(true)

	_, stderr, err := runCLI(t, []string{"add", "3", "--instance", "https://x", "--id", "a"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected add to fail")
	}
	requireContains(t, stderr, "[ERROR] Failed to save ID")
	if strings.Count(stderr, "Failed to save ID") != 1 {
		t.Fatalf("expected a single failure notice, got %q", stderr)
	}
	if !alreadyReported(err) {
		t.Fatalf("expected failure marked as reported: %v", err)
	}
}

func TestAddClosesJournalOnFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetScene("3", nil)
	env.fake.FailUpdates(true)

	cmd, cc := buildRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"--config", env.configPath, "add", "3", "--instance", "https://x", "--id", "a"})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected add to fail")
	}
	if cc.journal != nil {
		t.Fatal("expected journal closed after a failed run")
	}

	store := testsupport.MustOpenJournal(t, env.cfg)
	entries, err := store.List(context.Background(), journal.Filter{SceneID: "3"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Outcome != journal.OutcomeFailed {
		t.Fatalf("expected one failed entry, got %+v", entries)
	}
}

func TestAddUnauthorizedIsLookupError(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetScene("7", nil)
	env.fake.RequireAPIKey("secret")

	_, _, err := runCLI(t, []string{"add", "7", "--instance", "https://x", "--id", "a"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected add to fail")
	}
	if !errors.Is(err, services.ErrLookup) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if strings.Contains(err.Error(), "not found in Stash") {
		t.Fatalf("lookup failure reported as missing scene: %v", err)
	}
	requireContains(t, err.Error(), "401")
	if alreadyReported(err) {
		t.Fatal("lookup failure before the dialog opens must be printed")
	}
	if env.fake.FetchCalls() != 1 {
		t.Fatalf("expected a single lookup, got %d", env.fake.FetchCalls())
	}
}

func TestAddServerFailureIsLookupError(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetScene("7", nil)
	env.fake.FailFetch(10)

	_, _, err := runCLI(t, []string{"add", "7", "--instance", "https://x", "--id", "a"}, env.configPath, "")
	if !errors.Is(err, services.ErrLookup) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	requireContains(t, err.Error(), "look up scene 7")
	if env.fake.UpdateCalls() != 0 {
		t.Fatal("expected no updates")
	}
}

func TestSceneCommandOpensDialog(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithDefaultInstance("https://x"))
	env.fake.SetScene("9", stashids.Set{{Endpoint: "https://x", StashID: "a"}})

	out, _, err := runCLI(t, []string{"scene", "http://stash.local/scenes/9?tab=details"}, env.configPath, "\nb\n")
	if err != nil {
		t.Fatalf("scene: %v", err)
	}
	requireContains(t, out, "Scene 9 stash IDs:")
	requireContains(t, out, "Instance [https://x]: ")
	requireContains(t, out, "Added b as https://x1")

	stored, _ := env.fake.Scene("9")
	if len(stored) != 2 {
		t.Fatalf("unexpected stored ids: %+v", stored)
	}
}

func TestSceneCommandIgnoresOtherPages(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"scene", "http://stash.local/performers/3"}, env.configPath, "")
	if err != nil {
		t.Fatalf("scene: %v", err)
	}
	requireContains(t, out, "not a scene page")
	if env.fake.FetchCalls() != 0 {
		t.Fatal("expected no lookups for other pages")
	}
}

func TestSceneCommandSkipsMissingScene(t *testing.T) {
	env := setupCLITestEnv(t)

	_, stderr, err := runCLI(t, []string{"scene", "/scenes/404"}, env.configPath, "")
	if err != nil {
		t.Fatalf("scene: %v", err)
	}
	requireContains(t, stderr, "add-ID skipped")
}

func TestAddMissingScene(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"add", "404", "--instance", "https://x", "--id", "a"}, env.configPath, "")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestAddRejectsNonSceneReference(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"add", "/scenes/new"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected error for new-scene page")
	}
}

func TestAddRequiresInstanceForDirectSubmit(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetScene("3", nil)

	_, _, err := runCLI(t, []string{"add", "3", "--id", "a"}, env.configPath, "")
	if err == nil || !strings.Contains(err.Error(), "--instance") {
		t.Fatalf("expected instance error, got %v", err)
	}
}

func TestAddRespectsSceneLock(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetScene("3", nil)

	lock, err := journal.LockScene(env.cfg.LockDir(), "3")
	if err != nil {
		t.Fatalf("LockScene: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{"add", "3", "--instance", "https://x", "--id", "a"}, env.configPath, "")
	if err == nil || !strings.Contains(err.Error(), "another customid process") {
		t.Fatalf("expected lock error, got %v", err)
	}
	if env.fake.FetchCalls() != 0 {
		t.Fatal("expected no lookups while locked")
	}
}

func TestListFormats(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetScene("8", stashids.Set{{Endpoint: "https://x", StashID: "a"}})

	out, _, err := runCLI(t, []string{"list", "8"}, env.configPath, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "https://x")
	requireContains(t, out, "STASH ID")

	out, _, err = runCLI(t, []string{"list", "8", "--format", "json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("list json: %v", err)
	}
	var jsonView sceneIDsView
	if err := json.Unmarshal([]byte(out), &jsonView); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if jsonView.SceneID != "8" || len(jsonView.StashIDs) != 1 {
		t.Fatalf("unexpected json view: %+v", jsonView)
	}

	out, _, err = runCLI(t, []string{"list", "8", "--format", "yaml"}, env.configPath, "")
	if err != nil {
		t.Fatalf("list yaml: %v", err)
	}
	var yamlView sceneIDsView
	if err := yaml.Unmarshal([]byte(out), &yamlView); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(yamlView.StashIDs) != 1 || yamlView.StashIDs[0].StashID != "a" {
		t.Fatalf("unexpected yaml view: %+v", yamlView)
	}

	if _, _, err := runCLI(t, []string{"list", "8", "--format", "xml"}, env.configPath, ""); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestNextReportsVariant(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetScene("4", stashids.Set{
		{Endpoint: "https://x", StashID: "a"},
		{Endpoint: "https://x1", StashID: "b"},
	})

	out, _, err := runCLI(t, []string{"next", "4", "--instance", "https://x"}, env.configPath, "")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if strings.TrimSpace(out) != "https://x2" {
		t.Fatalf("unexpected variant %q", out)
	}

	out, _, err = runCLI(t, []string{"next", "4", "--instance", "https://x", "--id", "b"}, env.configPath, "")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	requireContains(t, out, "already linked")
	if env.fake.UpdateCalls() != 0 {
		t.Fatal("next must not write")
	}
}

func TestHistoryShowsSubmissions(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetScene("5", nil)

	if _, _, err := runCLI(t, []string{"add", "5", "--instance", "https://x", "--id", "a"}, env.configPath, ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := runCLI(t, []string{"add", "5", "--instance", "https://x", "--id", "a"}, env.configPath, ""); err != nil {
		t.Fatalf("add duplicate: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "--scene", "5", "--format", "json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var entries []journal.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Outcome != journal.OutcomeDuplicate || entries[1].Outcome != journal.OutcomeAdded {
		t.Fatalf("unexpected outcomes: %s, %s", entries[0].Outcome, entries[1].Outcome)
	}
	if entries[1].CorrelationID == "" {
		t.Fatal("expected correlation id")
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath, "")
	if err != nil {
		t.Fatalf("history table: %v", err)
	}
	requireContains(t, out, "duplicate")
}

func TestHistoryDisabledJournal(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithJournal(false))

	if _, _, err := runCLI(t, []string{"history"}, env.configPath, ""); err == nil {
		t.Fatal("expected error when journal disabled")
	}
}

func TestPing(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"ping"}, env.configPath, "")
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	requireContains(t, out, "[OK]")
	requireContains(t, out, "/graphql")
}

func TestPingUnauthorized(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.RequireAPIKey("secret")

	out, _, err := runCLI(t, []string{"ping"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected ping to fail without api key")
	}
	requireContains(t, out, "[ERROR]")
}
