package tier

import "github.com/lewlewstore/backend/internal/domain/shared"

// Aggregate type constant
const AggregateTypeTier = "Tier"

// Event type constants
const (
	EventTypeTierThresholdSet = "TierThresholdSet"
)

// TierThresholdSetEvent is published when a tier is created or its threshold changes
type TierThresholdSetEvent struct {
	shared.BaseDomainEvent
	TierID    string `json:"tier_id"`
	Threshold int64  `json:"threshold"`
	// Previous is nil when the tier was newly registered
	Previous *int64 `json:"previous,omitempty"`
}

// NewTierThresholdSetEvent creates a new TierThresholdSetEvent
func NewTierThresholdSetEvent(tier Tier, previous *int64) *TierThresholdSetEvent {
	return &TierThresholdSetEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTierThresholdSet, AggregateTypeTier, tier.ID),
		TierID:          tier.ID,
		Threshold:       tier.Threshold,
		Previous:        previous,
	}
}
