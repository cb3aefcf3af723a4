package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nyaya/internal/platform/kafka/consumer"
	audit "nyaya/pkg/platform/audit"
	"nyaya/pkg/platform/audit/store/postgres"
)

// EventStore materializes consumed events for querying.
type EventStore interface {
	AppendWithID(ctx context.Context, eventID uuid.UUID, event audit.Event) error
}

// EventHandler writes audit records from Kafka into audit_events.
// Compliance topics are strict: events without a case are logged and skipped.
type EventHandler struct {
	store         EventStore
	logger        *slog.Logger
	requireCaseID bool
}

// NewComplianceHandler handles the compliance topic.
func NewComplianceHandler(store EventStore, logger *slog.Logger) *EventHandler {
	return &EventHandler{store: store, logger: logger, requireCaseID: true}
}

// NewSecurityHandler handles integrity alerts, which may not belong to a case.
func NewSecurityHandler(store EventStore, logger *slog.Logger) *EventHandler {
	return &EventHandler{store: store, logger: logger}
}

// Handle processes one audit event.
func (h *EventHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	eventID, err := uuid.Parse(string(msg.Key))
	if err != nil {
		h.logger.Error("CRITICAL: failed to parse audit event ID",
			"key", string(msg.Key),
			"error", err,
		)
		// Return nil to commit - malformed messages should not block
		return nil
	}

	var payload postgres.Payload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		h.logger.Error("CRITICAL: failed to unmarshal audit payload",
			"event_id", eventID,
			"error", err,
		)
		return nil
	}

	if h.requireCaseID && payload.CaseID == "" {
		h.logger.Error("CRITICAL: compliance event missing CaseID",
			"event_id", eventID,
			"action", payload.Action,
		)
		return nil
	}

	event := payload.ToEvent()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := h.store.AppendWithID(ctx, eventID, event); err != nil {
		h.logger.Error("failed to store audit event",
			"event_id", eventID,
			"action", event.Action,
			"error", err,
		)
		return fmt.Errorf("store audit event: %w", err)
	}

	h.logger.Debug("stored audit event",
		"event_id", eventID,
		"action", event.Action,
		"case_id", event.CaseID,
	)
	return nil
}
