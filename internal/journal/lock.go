package journal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrSceneLocked is returned when another process is submitting for the same scene.
var ErrSceneLocked = errors.New("scene is locked by another submission")

// SceneLock is a held per-scene submission lock.
type SceneLock struct {
	lock *flock.Flock
}

// LockScene takes the submission lock for sceneID under lockDir without
// blocking.
func LockScene(lockDir, sceneID string) (*SceneLock, error) {
	name := lockFileName(sceneID)
	if name == "" {
		return nil, errors.New("journal: scene id is required for locking")
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(filepath.Join(lockDir, name))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: scene %s", ErrSceneLocked, sceneID)
	}
	return &SceneLock{lock: lock}, nil
}

// Path returns the lock file location.
func (l *SceneLock) Path() string {
	if l == nil || l.lock == nil {
		return ""
	}
	return l.lock.Path()
}

// Release drops the lock. Safe to call more than once.
func (l *SceneLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}

// lockFileName maps a scene ID onto a file name that cannot escape lockDir.
func lockFileName(sceneID string) string {
	id := strings.TrimSpace(sceneID)
	if id == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return "scene-" + b.String() + ".lock"
}
