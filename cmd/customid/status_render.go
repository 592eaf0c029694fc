package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"customid/internal/dialog"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

func renderStatus(kind statusKind, message string, colorize bool) string {
	line := fmt.Sprintf("[%s] %s", statusKindLabel(kind), message)
	if colorize {
		return statusKindColor(kind) + line + ansiReset
	}
	return line
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ansiBlue
	}
}

func statusKindFromLevel(level dialog.Level) statusKind {
	switch level {
	case dialog.LevelWarning:
		return statusWarn
	case dialog.LevelError:
		return statusError
	default:
		return statusInfo
	}
}

// newStatusNotifier renders dialog notices as status lines on w.
func newStatusNotifier(w io.Writer) *dialog.WriterNotifier {
	colorize := shouldColorize(w)
	n := dialog.NewWriterNotifier(w)
	n.Format = func(notice dialog.Notice) string {
		return renderStatus(statusKindFromLevel(notice.Level), notice.Message, colorize)
	}
	return n
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func isInteractive(reader io.Reader) bool {
	file, ok := reader.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
