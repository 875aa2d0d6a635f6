package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lewlewstore/backend/internal/domain/ledger"
	"github.com/lewlewstore/backend/internal/domain/role"
	"github.com/lewlewstore/backend/internal/domain/shared"
	"github.com/lewlewstore/backend/internal/domain/tier"
	"go.uber.org/zap"
)

// AuditedEventTypes are the domain events kept in the audit trail
var AuditedEventTypes = []string{
	ledger.EventTypePurchaseRecorded,
	role.EventTypeMemberReconciled,
	tier.EventTypeTierThresholdSet,
}

// AuditHandler writes domain events to the log as JSON, keeping a trail of
// purchases, tier changes and role reconciliations.
type AuditHandler struct {
	eventTypes []string
	logger     *zap.Logger
}

// NewAuditHandler creates an AuditHandler for the given event types.
// With no types it audits AuditedEventTypes.
func NewAuditHandler(logger *zap.Logger, eventTypes ...string) *AuditHandler {
	if len(eventTypes) == 0 {
		eventTypes = AuditedEventTypes
	}
	return &AuditHandler{
		eventTypes: eventTypes,
		logger:     logger,
	}
}

// Handle logs the serialized event
func (h *AuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize %s event: %w", event.EventType(), err)
	}

	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.Time("occurred_at", event.OccurredAt()),
		zap.ByteString("payload", payload),
	)
	return nil
}

// EventTypes returns the audited event types
func (h *AuditHandler) EventTypes() []string {
	return h.eventTypes
}

// Ensure AuditHandler implements EventHandler
var _ shared.EventHandler = (*AuditHandler)(nil)
