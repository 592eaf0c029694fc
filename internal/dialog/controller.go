package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"customid/internal/journal"
	"customid/internal/logging"
	"customid/internal/services"
	"customid/internal/stashids"
)

const component = "dialog"

var (
	// ErrBusy is returned when an action arrives while a submission is running.
	ErrBusy = errors.New("dialog: submission in progress")
	// ErrNotOpen is returned when submitting without an open dialog.
	ErrNotOpen = errors.New("dialog: not open")
)

// Store reads and replaces the stash IDs of a scene.
type Store interface {
	FetchIDs(ctx context.Context, sceneID string) (stashids.Set, error)
	ReplaceIDs(ctx context.Context, sceneID string, set stashids.Set) (stashids.Set, error)
}

// Refresher reloads the scene view after a successful write.
type Refresher interface {
	Refresh(ctx context.Context, sceneID string, ids stashids.Set) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, sceneID string, ids stashids.Set) error

func (f RefresherFunc) Refresh(ctx context.Context, sceneID string, ids stashids.Set) error {
	return f(ctx, sceneID, ids)
}

// Recorder journals finished submissions.
type Recorder interface {
	Record(ctx context.Context, entry journal.Entry) (journal.Entry, error)
}

// Options configures a Controller.
type Options struct {
	Store           Store
	DefaultInstance string
	Matcher         stashids.Matcher
	Notifier        Notifier
	Refresher       Refresher
	Recorder        Recorder
	Logger          *slog.Logger
	// NewCorrelationID overrides UUID generation.
	NewCorrelationID func() string
}

// Controller is the add-ID dialog state machine. It is safe for concurrent
// use; a submission holds the Submitting state until its round trips finish.
type Controller struct {
	store           Store
	defaultInstance string
	matcher         stashids.Matcher
	notifier        Notifier
	refresher       Refresher
	recorder        Recorder
	logger          *slog.Logger
	newID           func() string

	mu       sync.Mutex
	state    State
	sceneID  string
	fields   Fields
	controls Controls
}

// New constructs a closed Controller.
func New(opts Options) (*Controller, error) {
	if opts.Store == nil {
		return nil, services.Wrap(services.ErrIntegrationMissing, component, "new", "stash id store is required", nil)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = noopNotifier{}
	}
	newID := opts.NewCorrelationID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}
	return &Controller{
		store:           opts.Store,
		defaultInstance: strings.TrimSpace(opts.DefaultInstance),
		matcher:         opts.Matcher,
		notifier:        notifier,
		refresher:       opts.Refresher,
		recorder:        opts.Recorder,
		logger:          logging.NewComponentLogger(opts.Logger, component),
		newID:           newID,
		controls:        Controls{Enabled: true, ConfirmLabel: LabelConfirm},
	}, nil
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SceneID returns the scene the dialog was last opened for.
func (c *Controller) SceneID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sceneID
}

// Fields returns a snapshot of the inputs.
func (c *Controller) Fields() Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Controls returns a snapshot of the confirm/cancel controls.
func (c *Controller) Controls() Controls {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controls
}

// DefaultInstance returns the value pre-filled into the instance field.
func (c *Controller) DefaultInstance() string {
	return c.defaultInstance
}

// Open shows the dialog for sceneID with fresh inputs. Reopening an open
// dialog resets it.
func (c *Controller) Open(sceneID string) error {
	sceneID = strings.TrimSpace(sceneID)
	if sceneID == "" {
		return services.Wrap(services.ErrValidation, component, "open", "scene id is required", nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitting {
		return ErrBusy
	}
	c.state = StateOpen
	c.sceneID = sceneID
	c.fields = Fields{Instance: c.defaultInstance, Focus: FieldInstance}
	c.controls = Controls{Enabled: true, ConfirmLabel: LabelConfirm}
	c.logger.Debug("dialog opened", logging.String(logging.FieldSceneID, sceneID))
	return nil
}

// Cancel closes an open dialog without touching Stash.
func (c *Controller) Cancel() error {
	return c.close("cancel")
}

// DismissOutside closes an open dialog, as a click outside its content does.
func (c *Controller) DismissOutside() error {
	return c.close("dismiss")
}

func (c *Controller) close(reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateSubmitting:
		return ErrBusy
	case StateClosed:
		return nil
	}
	c.state = StateClosed
	c.fields.Focus = FieldNone
	c.logger.Debug("dialog closed", logging.String("reason", reason), logging.String(logging.FieldSceneID, c.sceneID))
	return nil
}

// Submit confirms the dialog with the given inputs. Blank inputs keep the
// dialog open and return a validation error without contacting Stash. A
// duplicate closes the dialog without writing. Otherwise the next free
// endpoint variant is allocated and the full list is written back; on
// failure the dialog returns to Open with its controls restored.
//
// The round trips ignore cancellation of ctx once they start.
func (c *Controller) Submit(ctx context.Context, instance, stashID string) (Result, error) {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return Result{}, ErrBusy
	case StateClosed:
		c.mu.Unlock()
		return Result{}, ErrNotOpen
	}
	sceneID := c.sceneID
	c.fields.Instance = instance
	c.fields.StashID = stashID

	base := strings.TrimSpace(instance)
	id := strings.TrimSpace(stashID)
	if base == "" || id == "" {
		if base == "" {
			c.fields.Focus = FieldInstance
		} else {
			c.fields.Focus = FieldStashID
		}
		c.mu.Unlock()
		c.notifier.Notify(ctx, Notice{Level: LevelWarning, Message: "Instance and ID are both required."})
		return Result{}, services.Wrap(services.ErrValidation, component, "submit", "instance and id are required", nil)
	}

	c.state = StateSubmitting
	c.controls = Controls{Enabled: false, ConfirmLabel: LabelSaving}
	c.mu.Unlock()

	correlationID := c.newID()
	ctx = context.WithoutCancel(ctx)
	ctx = services.WithSceneID(ctx, sceneID)
	ctx = services.WithRequestID(ctx, correlationID)
	logger := logging.WithContext(ctx, c.logger).With(
		logging.String(logging.FieldEndpoint, base),
		logging.String(logging.FieldStashID, id),
	)
	logger.Info("submitting stash id")

	result := Result{
		CorrelationID: correlationID,
		SceneID:       sceneID,
		BaseEndpoint:  base,
		StashID:       id,
	}

	existing, err := c.store.FetchIDs(ctx, sceneID)
	if err != nil {
		return result, c.fail(ctx, logger, result, err)
	}

	if c.matcher.Exists(base, id, existing) {
		result.Outcome = OutcomeDuplicate
		result.IDs = existing
		c.finish()
		logger.Info("stash id already present; nothing written")
		c.notifier.Notify(ctx, Notice{Level: LevelInfo, Message: fmt.Sprintf("ID %s is already linked to %s.", id, base)})
		c.record(ctx, logger, result, nil)
		return result, nil
	}

	result.Endpoint = c.matcher.Allocate(base, existing)
	next := existing.Append(stashids.Record{Endpoint: result.Endpoint, StashID: id})
	stored, err := c.store.ReplaceIDs(ctx, sceneID, next)
	if err != nil {
		return result, c.fail(ctx, logger, result, err)
	}

	result.Outcome = OutcomeAdded
	result.IDs = stored
	c.finish()
	logger.Info("stash id added", logging.String("variant", result.Endpoint), logging.Int("count", len(stored)))
	c.record(ctx, logger, result, nil)

	if c.refresher != nil {
		if err := c.refresher.Refresh(ctx, sceneID, stored); err != nil {
			logger.Warn("refresh after submit failed", logging.Error(err))
		}
	}
	return result, nil
}

func (c *Controller) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateClosed
	c.fields.Focus = FieldNone
	c.controls = Controls{Enabled: true, ConfirmLabel: LabelConfirm}
}

func (c *Controller) fail(ctx context.Context, logger *slog.Logger, result Result, err error) error {
	c.mu.Lock()
	c.state = StateOpen
	c.controls = Controls{Enabled: true, ConfirmLabel: LabelConfirm}
	c.mu.Unlock()

	logger.Error("submit failed", logging.Error(err))
	c.notifier.Notify(ctx, Notice{Level: LevelError, Message: fmt.Sprintf("Failed to save ID: %v", err)})
	c.record(ctx, logger, result, err)
	return err
}

func (c *Controller) record(ctx context.Context, logger *slog.Logger, result Result, cause error) {
	if c.recorder == nil {
		return
	}
	entry := journal.Entry{
		CorrelationID: result.CorrelationID,
		SceneID:       result.SceneID,
		BaseEndpoint:  result.BaseEndpoint,
		Endpoint:      result.Endpoint,
		StashID:       result.StashID,
	}
	switch {
	case cause != nil:
		entry.Outcome = journal.OutcomeFailed
		entry.Error = cause.Error()
	case result.Outcome == OutcomeDuplicate:
		entry.Outcome = journal.OutcomeDuplicate
	default:
		entry.Outcome = journal.OutcomeAdded
	}
	if _, err := c.recorder.Record(ctx, entry); err != nil {
		logger.Warn("journal write failed", logging.Error(err))
	}
}
