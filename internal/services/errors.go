package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrConfiguration      = errors.New("configuration error")
	ErrLookup             = errors.New("lookup failed")
	ErrPersist            = errors.New("persist failed")
	ErrIntegrationMissing = errors.New("integration missing")
	ErrTargetNotFound     = errors.New("target not found")
)

// Disposition describes how a caller should react to a failure.
type Disposition int

const (
	// DispositionRetry means the user can correct input or try again.
	DispositionRetry Disposition = iota
	// DispositionUnavailable means the feature is switched off for this run.
	DispositionUnavailable
)

func (d Disposition) String() string {
	switch d {
	case DispositionUnavailable:
		return "unavailable"
	default:
		return "retry"
	}
}

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrLookup
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to the disposition the caller should apply.
func Classify(err error) Disposition {
	switch {
	case errors.Is(err, ErrIntegrationMissing), errors.Is(err, ErrTargetNotFound), errors.Is(err, ErrConfiguration):
		return DispositionUnavailable
	default:
		return DispositionRetry
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
