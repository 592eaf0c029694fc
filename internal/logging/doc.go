// Package logging assembles structured slog loggers used across customid.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so the dialog and store client
// automatically tag log lines with scene IDs and submission correlation IDs.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
