package scenepage

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"customid/internal/dialog"
	"customid/internal/logging"
	"customid/internal/services"
	"customid/internal/stashids"
)

const component = "scenepage"

// SceneReader checks that a scene is visible in Stash.
type SceneReader interface {
	FetchIDs(ctx context.Context, sceneID string) (stashids.Set, error)
}

// Options configures a Surface.
type Options struct {
	// Dialog configures the shared dialog; its Store doubles as the
	// SceneReader when that is left nil.
	Dialog dialog.Options
	Reader SceneReader
	Wait   WaitOptions
	Logger *slog.Logger
}

// Attachment is the result of Attach.
type Attachment struct {
	SceneID  string
	Attached bool
	// IDs is the scene's list as seen while attaching.
	IDs stashids.Set
}

// Surface owns the dialog shared by all scene attachments.
type Surface struct {
	opts   Options
	reader SceneReader
	logger *slog.Logger

	once      sync.Once
	dialog    *dialog.Controller
	dialogErr error
}

// NewSurface builds a Surface. The dialog itself is created on first use.
func NewSurface(opts Options) *Surface {
	reader := opts.Reader
	if reader == nil && opts.Dialog.Store != nil {
		reader = opts.Dialog.Store
	}
	if opts.Dialog.Logger == nil {
		opts.Dialog.Logger = opts.Logger
	}
	return &Surface{
		opts:   opts,
		reader: reader,
		logger: logging.NewComponentLogger(opts.Logger, component),
	}
}

// Dialog returns the shared dialog, creating it on the first call. Every call
// returns the same instance.
func (s *Surface) Dialog() (*dialog.Controller, error) {
	s.once.Do(func() {
		s.dialog, s.dialogErr = dialog.New(s.opts.Dialog)
	})
	return s.dialog, s.dialogErr
}

// Attach resolves rawURL to a scene and waits until Stash can serve it.
// Locations that are not scene pages return a zero Attachment and no error.
// Only a scene reported missing (services.ErrTargetNotFound) is waited for;
// when it never appears a warning is logged and Attached is false. Any other
// reader failure ends the wait and is returned as is. Without a store the
// feature is disabled and services.ErrIntegrationMissing is returned.
func (s *Surface) Attach(ctx context.Context, rawURL string) (Attachment, error) {
	if s.reader == nil {
		err := services.Wrap(services.ErrIntegrationMissing, component, "attach", "no stash id store configured", nil)
		s.logger.Error("add-id feature unavailable", logging.Error(err))
		return Attachment{}, err
	}

	sceneID, ok := ParseScenePath(rawURL)
	if !ok {
		s.logger.Debug("location is not a scene page", logging.String("location", rawURL))
		return Attachment{}, nil
	}
	ctx = services.WithSceneID(ctx, sceneID)
	logger := logging.WithContext(ctx, s.logger)

	var ids stashids.Set
	err := Wait(ctx, func(ctx context.Context) (bool, error) {
		found, err := s.reader.FetchIDs(ctx, sceneID)
		switch {
		case errors.Is(err, services.ErrTargetNotFound):
			logger.Debug("scene not visible yet", logging.Error(err))
			return false, err
		case err != nil:
			return false, Stop(err)
		}
		ids = found
		return true, nil
	}, s.opts.Wait)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrTargetNotFound):
		logger.Warn("scene not found; add-id skipped", logging.Error(err))
		return Attachment{SceneID: sceneID}, nil
	default:
		logger.Error("scene lookup failed", logging.Error(err))
		return Attachment{SceneID: sceneID}, err
	}

	if _, err := s.Dialog(); err != nil {
		logger.Error("dialog unavailable", logging.Error(err))
		return Attachment{SceneID: sceneID}, err
	}
	logger.Debug("attached", logging.Int("count", len(ids)))
	return Attachment{SceneID: sceneID, Attached: true, IDs: ids}, nil
}
