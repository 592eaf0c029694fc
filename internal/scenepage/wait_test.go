package scenepage

import (
	"context"
	"errors"
	"testing"
	"time"

	"customid/internal/services"
)

func fastWait(attempts int) WaitOptions {
	return WaitOptions{Attempts: attempts, Interval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestWaitSucceedsImmediately(t *testing.T) {
	calls := 0
	err := Wait(context.Background(), func(context.Context) (bool, error) {
		calls++
		return true, nil
	}, fastWait(5))
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestWaitRetriesUntilPresent(t *testing.T) {
	calls := 0
	err := Wait(context.Background(), func(context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	}, fastWait(5))
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWaitExhaustsAttempts(t *testing.T) {
	calls := 0
	cause := errors.New("not yet")
	err := Wait(context.Background(), func(context.Context) (bool, error) {
		calls++
		return false, cause
	}, fastWait(4))
	if !errors.Is(err, services.ErrTargetNotFound) {
		t.Fatalf("expected target not found, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected last cause in chain, got %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected 4 calls, got %d", calls)
	}
}

func TestWaitStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Wait(ctx, func(context.Context) (bool, error) {
		calls++
		cancel()
		return false, nil
	}, WaitOptions{Attempts: 10, Interval: time.Hour})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestWaitOptionsDefaults(t *testing.T) {
	got := WaitOptions{}.withDefaults()
	if got.Attempts != 20 || got.Interval != 500*time.Millisecond || got.MaxInterval != 5*time.Second {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	clamped := WaitOptions{Interval: time.Second, MaxInterval: time.Millisecond}.withDefaults()
	if clamped.MaxInterval != time.Second {
		t.Fatalf("expected max interval clamped to interval, got %v", clamped.MaxInterval)
	}
}

func TestWaitStopEndsImmediately(t *testing.T) {
	calls := 0
	cause := errors.New("unauthorized")
	err := Wait(context.Background(), func(context.Context) (bool, error) {
		calls++
		return false, Stop(cause)
	}, fastWait(5))
	if err != cause {
		t.Fatalf("expected cause returned unchanged, got %v", err)
	}
	if errors.Is(err, services.ErrTargetNotFound) {
		t.Fatal("stopped wait must not report target not found")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}
