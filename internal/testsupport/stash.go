package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"customid/internal/stashids"
)

// FakeStash is an in-process Stash GraphQL server covering the operations
// customid issues: findScene, sceneUpdate, and version.
type FakeStash struct {
	Server *httptest.Server

	mu          sync.Mutex
	apiKey      string
	scenes      map[string]stashids.Set
	fetchCalls  int
	updateCalls int
	updates     []stashids.Set
	failFetch   int
	failUpdate  bool
}

// NewFakeStash starts a fake server and registers cleanup.
func NewFakeStash(t testing.TB) *FakeStash {
	t.Helper()
	f := &FakeStash{scenes: make(map[string]stashids.Set)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the Stash base URL (without /graphql).
func (f *FakeStash) URL() string {
	return f.Server.URL
}

// RequireAPIKey makes the server reject requests lacking the given ApiKey header.
func (f *FakeStash) RequireAPIKey(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apiKey = key
}

// SetScene stores the stash IDs of a scene, creating it if needed.
func (f *FakeStash) SetScene(id string, set stashids.Set) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scenes[id] = set.Clone()
	if f.scenes[id] == nil {
		f.scenes[id] = stashids.Set{}
	}
}

// Scene returns the stored stash IDs of a scene.
func (f *FakeStash) Scene(id string) (stashids.Set, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.scenes[id]
	return set.Clone(), ok
}

// FailFetch answers the next n findScene calls with HTTP 500.
func (f *FakeStash) FailFetch(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failFetch = n
}

// FailUpdates toggles GraphQL errors for sceneUpdate.
func (f *FakeStash) FailUpdates(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failUpdate = fail
}

// FetchCalls reports how many findScene requests were served.
func (f *FakeStash) FetchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

// UpdateCalls reports how many sceneUpdate requests were served.
func (f *FakeStash) UpdateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updateCalls
}

// Updates returns every stash ID list received by sceneUpdate, in order.
func (f *FakeStash) Updates() []stashids.Set {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]stashids.Set, len(f.updates))
	for i, u := range f.updates {
		out[i] = u.Clone()
	}
	return out
}

type fakeRequest struct {
	OperationName string          `json:"operationName"`
	Query         string          `json:"query"`
	Variables     json.RawMessage `json:"variables"`
}

type fakeScene struct {
	ID       string       `json:"id"`
	StashIDs stashids.Set `json:"stash_ids"`
}

func (f *FakeStash) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/graphql" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.apiKey != "" && r.Header.Get("ApiKey") != f.apiKey {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req fakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	switch req.OperationName {
	case "FindSceneStashIDs":
		f.fetchCalls++
		if f.failFetch > 0 {
			f.failFetch--
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		var vars struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(req.Variables, &vars)
		set, ok := f.scenes[vars.ID]
		if !ok {
			writeData(w, map[string]any{"findScene": nil})
			return
		}
		writeData(w, map[string]any{"findScene": fakeScene{ID: vars.ID, StashIDs: nonNil(set)}})
	case "UpdateSceneStashIDs":
		f.updateCalls++
		var vars struct {
			Input fakeScene `json:"input"`
		}
		_ = json.Unmarshal(req.Variables, &vars)
		if f.failUpdate {
			writeErrors(w, "sceneUpdate rejected")
			return
		}
		if _, ok := f.scenes[vars.Input.ID]; !ok {
			writeErrors(w, "scene not found")
			return
		}
		stored := nonNil(vars.Input.StashIDs.Clone())
		f.scenes[vars.Input.ID] = stored
		f.updates = append(f.updates, stored.Clone())
		writeData(w, map[string]any{"sceneUpdate": fakeScene{ID: vars.Input.ID, StashIDs: stored}})
	case "Version":
		writeData(w, map[string]any{"version": map[string]string{"version": "v0.27.2"}})
	default:
		writeErrors(w, "unknown operation "+req.OperationName)
	}
}

func nonNil(set stashids.Set) stashids.Set {
	if set == nil {
		return stashids.Set{}
	}
	return set
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeErrors(w http.ResponseWriter, messages ...string) {
	errs := make([]map[string]string, 0, len(messages))
	for _, msg := range messages {
		errs = append(errs, map[string]string{"message": msg})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": nil, "errors": errs})
}
