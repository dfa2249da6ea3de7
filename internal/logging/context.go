package logging

import (
	"context"
	"log/slog"

	"timemachine/internal/services"
)

// Keys shared by every log line timemachine writes.
const (
	FieldComponent = "component"
	// FieldRunID identifies one push run in the ledger.
	FieldRunID = "run_id"
	// FieldGedcomRef is the cross-reference of the individual being mapped, e.g. @I12@.
	FieldGedcomRef = "gedcom_ref"
	// FieldStage is build or push.
	FieldStage = "stage"
	// FieldField names the person property a line concerns.
	FieldField = "field"
	// FieldRequestID correlates the retries of one Notion request.
	FieldRequestID = "request_id"
	FieldPageID    = "page_id"
	FieldDatabase  = "database_id"
	// FieldEventType classifies a line for filtering and for the ledger's warning events.
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	// FieldImpact says what the warning cost the run.
	FieldImpact = "impact"
)

// ContextFields returns the run, record, stage and request attributes carried by ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var fields []slog.Attr
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, RunID(id))
	}
	if ref, ok := services.GedcomRefFromContext(ctx); ok {
		fields = append(fields, GedcomRef(ref))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRequestID, rid))
	}
	return fields
}

// WithContext returns logger with the fields from ContextFields attached.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(toArgs(fields)...)
}
