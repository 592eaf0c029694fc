package scenepage

import (
	"net/url"
	"strings"
)

const newScene = "new"

// ParseScenePath extracts the scene ID from a Stash scene URL or path such
// as "/scenes/12" or "http://host:9999/scenes/12/edit?x=1". A bare numeric
// ID is accepted as well. The "new" scene page has no ID and is rejected.
func ParseScenePath(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if isSceneID(raw) {
		return raw, true
	}

	path := raw
	if u, err := url.Parse(raw); err == nil {
		path = u.Path
		if u.Fragment != "" && strings.HasPrefix(u.Fragment, "/") {
			path = u.Fragment
		}
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] != "scenes" {
			continue
		}
		id := segments[i+1]
		if id == "" || id == newScene {
			return "", false
		}
		return id, true
	}
	return "", false
}

func isSceneID(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
