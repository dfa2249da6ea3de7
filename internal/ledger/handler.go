package ledger

import (
	"context"
	"log/slog"
	"time"

	"timemachine/internal/logging"
	"timemachine/internal/services"
)

// WarningHandler is a slog.Handler that copies warnings carrying a GEDCOM
// reference into the events of one run. Combine it with the console handler
// through logging.TeeLogger.
type WarningHandler struct {
	store *Store
	runID string
	attrs []slog.Attr
}

// NewWarningHandler returns a handler bound to runID.
func NewWarningHandler(store *Store, runID string) *WarningHandler {
	return &WarningHandler{store: store, runID: runID}
}

func (h *WarningHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h != nil && h.store != nil && level >= slog.LevelWarn
}

func (h *WarningHandler) Handle(ctx context.Context, record slog.Record) error {
	ref, _ := services.GedcomRefFromContext(ctx)
	eventType := ""
	visit := func(attr slog.Attr) bool {
		switch attr.Key {
		case logging.FieldGedcomRef:
			ref = attr.Value.String()
		case logging.FieldEventType:
			eventType = attr.Value.String()
		}
		return true
	}
	for _, attr := range h.attrs {
		visit(attr)
	}
	record.Attrs(visit)
	if ref == "" {
		return nil
	}

	message := record.Message
	if eventType != "" {
		message = eventType + ": " + message
	}
	// The record's context may already be cancelled when a halted run logs.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return h.store.RecordWarning(writeCtx, h.runID, ref, message)
}

func (h *WarningHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *WarningHandler) WithGroup(string) slog.Handler {
	return h
}
