package scenepage_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"customid/internal/dialog"
	"customid/internal/scenepage"
	"customid/internal/services"
	"customid/internal/stashapp"
	"customid/internal/stashids"
	"customid/internal/testsupport"
)

func newSurface(t *testing.T, fake *testsupport.FakeStash, logs *bytes.Buffer) *scenepage.Surface {
	t.Helper()
	client, err := stashapp.New(stashapp.Options{Endpoint: fake.URL() + "/graphql"})
	if err != nil {
		t.Fatalf("stashapp.New: %v", err)
	}
	var logger *slog.Logger
	if logs != nil {
		logger = slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return scenepage.NewSurface(scenepage.Options{
		Dialog: dialog.Options{Store: client},
		Wait:   scenepage.WaitOptions{Attempts: 3, Interval: time.Millisecond, MaxInterval: 2 * time.Millisecond},
		Logger: logger,
	})
}

func TestDialogIsSingleton(t *testing.T) {
	surface := newSurface(t, testsupport.NewFakeStash(t), nil)
	first, err := surface.Dialog()
	if err != nil {
		t.Fatalf("Dialog returned error: %v", err)
	}
	second, err := surface.Dialog()
	if err != nil {
		t.Fatalf("Dialog returned error: %v", err)
	}
	if first != second {
		t.Fatal("expected the same dialog instance")
	}
}

func TestAttachResolvesScene(t *testing.T) {
	fake := testsupport.NewFakeStash(t)
	fake.SetScene("12", stashids.Set{{Endpoint: "https://x", StashID: "a"}})
	surface := newSurface(t, fake, nil)

	att, err := surface.Attach(context.Background(), "http://localhost:9999/scenes/12")
	if err != nil {
		t.Fatalf("Attach returned error: %v", err)
	}
	if !att.Attached || att.SceneID != "12" || len(att.IDs) != 1 {
		t.Fatalf("unexpected attachment: %+v", att)
	}
}

func TestAttachIgnoresNonScenePages(t *testing.T) {
	fake := testsupport.NewFakeStash(t)
	surface := newSurface(t, fake, nil)

	att, err := surface.Attach(context.Background(), "/scenes/new")
	if err != nil {
		t.Fatalf("Attach returned error: %v", err)
	}
	if att.Attached || att.SceneID != "" {
		t.Fatalf("unexpected attachment: %+v", att)
	}
	if fake.FetchCalls() != 0 {
		t.Fatal("expected no lookups for non-scene pages")
	}
}

func TestAttachWarnsWhenSceneMissing(t *testing.T) {
	fake := testsupport.NewFakeStash(t)
	var logs bytes.Buffer
	surface := newSurface(t, fake, &logs)

	att, err := surface.Attach(context.Background(), "/scenes/99")
	if err != nil {
		t.Fatalf("Attach returned error: %v", err)
	}
	if att.Attached || att.SceneID != "99" {
		t.Fatalf("unexpected attachment: %+v", att)
	}
	if fake.FetchCalls() != 3 {
		t.Fatalf("expected 3 attempts, got %d", fake.FetchCalls())
	}
	if !strings.Contains(logs.String(), "level=WARN") {
		t.Fatalf("expected warning log, got %q", logs.String())
	}
}

type appearingReader struct {
	misses int
	calls  int
	ids    stashids.Set
}

func (r *appearingReader) FetchIDs(_ context.Context, sceneID string) (stashids.Set, error) {
	r.calls++
	if r.calls <= r.misses {
		return nil, services.Wrap(services.ErrLookup, "test", "findScene", "scene "+sceneID, services.ErrTargetNotFound)
	}
	return r.ids, nil
}

func TestAttachWaitsForScene(t *testing.T) {
	fake := testsupport.NewFakeStash(t)
	client, err := stashapp.New(stashapp.Options{Endpoint: fake.URL() + "/graphql"})
	if err != nil {
		t.Fatalf("stashapp.New: %v", err)
	}
	reader := &appearingReader{misses: 2, ids: stashids.Set{{Endpoint: "https://x", StashID: "a"}}}
	surface := scenepage.NewSurface(scenepage.Options{
		Dialog: dialog.Options{Store: client},
		Reader: reader,
		Wait:   scenepage.WaitOptions{Attempts: 5, Interval: time.Millisecond, MaxInterval: 2 * time.Millisecond},
	})

	att, err := surface.Attach(context.Background(), "/scenes/5")
	if err != nil {
		t.Fatalf("Attach returned error: %v", err)
	}
	if !att.Attached || len(att.IDs) != 1 {
		t.Fatalf("expected attachment after retries: %+v", att)
	}
	if reader.calls != 3 {
		t.Fatalf("expected 3 lookups, got %d", reader.calls)
	}
}

func TestAttachStopsOnLookupFailure(t *testing.T) {
	fake := testsupport.NewFakeStash(t)
	fake.SetScene("5", nil)
	fake.FailFetch(5)
	surface := newSurface(t, fake, nil)

	att, err := surface.Attach(context.Background(), "/scenes/5")
	if !errors.Is(err, services.ErrLookup) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if errors.Is(err, services.ErrTargetNotFound) {
		t.Fatalf("server failure must not read as a missing scene: %v", err)
	}
	if services.Classify(err) != services.DispositionRetry {
		t.Fatalf("expected retry disposition for %v", err)
	}
	if att.Attached {
		t.Fatalf("unexpected attachment: %+v", att)
	}
	if fake.FetchCalls() != 1 {
		t.Fatalf("expected a single lookup, got %d", fake.FetchCalls())
	}
}

func TestAttachStopsOnUnauthorized(t *testing.T) {
	fake := testsupport.NewFakeStash(t)
	fake.SetScene("5", nil)
	fake.RequireAPIKey("secret")
	surface := newSurface(t, fake, nil)

	if _, err := surface.Attach(context.Background(), "/scenes/5"); !errors.Is(err, services.ErrLookup) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if fake.FetchCalls() != 1 {
		t.Fatalf("expected a single lookup, got %d", fake.FetchCalls())
	}
}

func TestAttachWithoutStoreIsIntegrationMissing(t *testing.T) {
	surface := scenepage.NewSurface(scenepage.Options{})
	_, err := surface.Attach(context.Background(), "/scenes/1")
	if !errors.Is(err, services.ErrIntegrationMissing) {
		t.Fatalf("expected integration missing, got %v", err)
	}
	if services.Classify(err) != services.DispositionUnavailable {
		t.Fatalf("expected unavailable disposition")
	}
	if _, err := surface.Dialog(); !errors.Is(err, services.ErrIntegrationMissing) {
		t.Fatalf("expected dialog creation to fail without store, got %v", err)
	}
}
