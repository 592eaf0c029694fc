package scenepage

import (
	"context"
	"errors"
	"time"

	"customid/internal/services"
)

const (
	defaultAttempts    = 20
	defaultInterval    = 500 * time.Millisecond
	defaultMaxInterval = 5 * time.Second
)

// WaitOptions bounds Wait. Zero values take the defaults: 20 attempts,
// starting 500ms apart, backing off to at most 5s.
type WaitOptions struct {
	Attempts    int
	Interval    time.Duration
	MaxInterval time.Duration
}

func (o WaitOptions) withDefaults() WaitOptions {
	if o.Attempts <= 0 {
		o.Attempts = defaultAttempts
	}
	if o.Interval <= 0 {
		o.Interval = defaultInterval
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = defaultMaxInterval
	}
	if o.MaxInterval < o.Interval {
		o.MaxInterval = o.Interval
	}
	return o
}

// Condition reports whether the awaited target is present.
type Condition func(ctx context.Context) (bool, error)

type stopError struct {
	err error
}

func (e *stopError) Error() string { return e.err.Error() }
func (e *stopError) Unwrap() error { return e.err }

// Stop marks a Condition error as final: Wait returns it unchanged instead of
// trying again.
func Stop(err error) error {
	if err == nil {
		return nil
	}
	return &stopError{err: err}
}

// Wait evaluates cond until it reports true, doubling the delay between
// attempts up to MaxInterval. It returns services.ErrTargetNotFound once the
// attempts are spent and ctx.Err() when ctx ends first. An error from cond
// counts as a miss and the last one is wrapped into the not-found error,
// unless it was marked with Stop, in which case Wait returns it at once.
func Wait(ctx context.Context, cond Condition, opts WaitOptions) error {
	opts = opts.withDefaults()
	delay := opts.Interval

	var lastErr error
	for attempt := 0; attempt < opts.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := cond(ctx)
		if err == nil && ok {
			return nil
		}
		var stop *stopError
		if errors.As(err, &stop) {
			return stop.err
		}
		if err != nil {
			lastErr = err
		}
		if attempt == opts.Attempts-1 {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
		if next := delay * 2; next <= opts.MaxInterval {
			delay = next
		} else {
			delay = opts.MaxInterval
		}
	}
	return services.Wrap(services.ErrTargetNotFound, component, "wait", "target did not appear", lastErr)
}
