package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/lewlewstore/backend/internal/domain/ledger"
	"github.com/lewlewstore/backend/internal/domain/notification"
	"github.com/lewlewstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PurchaseNotifier posts recorded purchases to the guild's log channel
type PurchaseNotifier struct {
	channels  notification.LogChannelRepository
	messenger notification.Messenger
	logger    *zap.Logger
}

// NewPurchaseNotifier creates a new PurchaseNotifier
func NewPurchaseNotifier(channels notification.LogChannelRepository, messenger notification.Messenger, logger *zap.Logger) *PurchaseNotifier {
	return &PurchaseNotifier{
		channels:  channels,
		messenger: messenger,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (n *PurchaseNotifier) EventTypes() []string {
	return []string{ledger.EventTypePurchaseRecorded}
}

// Handle posts the purchase message. Guilds without a log channel are skipped.
func (n *PurchaseNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	recorded, ok := event.(*ledger.PurchaseRecordedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	channel, err := n.channels.FindByScope(ctx, recorded.Scope)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			n.logger.Debug("No log channel configured",
				zap.String("guild_id", recorded.Scope),
			)
			return nil
		}
		return fmt.Errorf("find log channel: %w", err)
	}

	content := notification.PurchaseMessage(recorded.CustomerID, recorded.Quantity, recorded.ProductName, recorded.Price)
	if err := n.messenger.SendMessage(ctx, channel.ChannelID, content); err != nil {
		return fmt.Errorf("send purchase notification: %w", err)
	}
	return nil
}

// Ensure PurchaseNotifier implements EventHandler
var _ shared.EventHandler = (*PurchaseNotifier)(nil)
