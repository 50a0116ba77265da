package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCorrelationID is the standardized structured logging key for the run identifier.
	FieldCorrelationID = "correlation_id"
	// FieldInput is the standardized structured logging key for the analysed input path.
	FieldInput = "input"
	// FieldSink is the standardized structured logging key for output sink names.
	FieldSink = "sink"
)

type contextKey string

const runIDKey contextKey = "run_id"

// WithRunID annotates ctx with a fresh correlation identifier unless one is
// already present.
func WithRunID(ctx context.Context) context.Context {
	if _, ok := RunIDFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, uuid.NewString())
}

// RunIDFromContext returns the correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := RunIDFromContext(ctx); ok {
		return logger.With(String(FieldCorrelationID, id))
	}
	return logger
}
