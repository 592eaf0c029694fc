package logging

import (
	"context"
	"log/slog"

	"customid/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSceneID is the standardized structured logging key for Stash scene identifiers.
	FieldSceneID = "scene_id"
	// FieldCorrelationID is the standardized structured logging key for submission correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldEndpoint is the standardized structured logging key for stash ID endpoints.
	FieldEndpoint = "endpoint"
	// FieldStashID is the standardized structured logging key for stash ID values.
	FieldStashID = "stash_id"
	// FieldState is the standardized structured logging key for dialog states.
	FieldState = "state"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.SceneIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSceneID, id))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
