package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lewlewstore/backend/internal/domain/shared"
)

// LogChannel is the channel a guild's purchase notifications are posted to
type LogChannel struct {
	Scope     string
	ChannelID string
	UpdatedAt time.Time
}

// NewLogChannel validates and creates a LogChannel
func NewLogChannel(scope, channelID string) (LogChannel, error) {
	if strings.TrimSpace(scope) == "" {
		return LogChannel{}, shared.NewDomainError(shared.CodeInvalidInput, "guild id cannot be empty")
	}
	if strings.TrimSpace(channelID) == "" {
		return LogChannel{}, shared.NewDomainError(shared.CodeInvalidInput, "channel id cannot be empty")
	}
	return LogChannel{Scope: scope, ChannelID: channelID, UpdatedAt: time.Now()}, nil
}

// LogChannelRepository defines the persistence contract of log channels
type LogChannelRepository interface {
	// Save creates or replaces the scope's log channel
	Save(ctx context.Context, channel LogChannel) error

	// FindByScope returns shared.ErrNotFound when no channel is configured
	FindByScope(ctx context.Context, scope string) (LogChannel, error)
}

// Messenger posts plain text messages to a chat channel
type Messenger interface {
	SendMessage(ctx context.Context, channelID, content string) error
}

// PurchaseMessage renders the purchase notification text
func PurchaseMessage(customerID string, quantity int64, productName string, price int64) string {
	return fmt.Sprintf("<@%s> bought **%d×%s** for **%s**",
		customerID, quantity, productName, shared.FormatMoneyWithCurrency(price))
}
