package dialog

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Level grades a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a message surfaced to the user.
type Notice struct {
	Level   Level
	Message string
}

// Notifier surfaces notices to the user. Implementations must not block on
// user input.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, notice Notice)

func (f NotifierFunc) Notify(ctx context.Context, notice Notice) { f(ctx, notice) }

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notice) {}

// WriterNotifier prints notices as single lines, prefixed with their level.
type WriterNotifier struct {
	mu  sync.Mutex
	out io.Writer
	// Format renders a notice; nil uses "level: message".
	Format func(Notice) string
}

// NewWriterNotifier returns a Notifier writing to out.
func NewWriterNotifier(out io.Writer) *WriterNotifier {
	return &WriterNotifier{out: out}
}

func (w *WriterNotifier) Notify(_ context.Context, notice Notice) {
	if w == nil || w.out == nil {
		return
	}
	line := fmt.Sprintf("%s: %s", notice.Level, notice.Message)
	if w.Format != nil {
		line = w.Format(notice)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, line)
}
