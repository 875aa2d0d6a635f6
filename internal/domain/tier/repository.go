package tier

import "context"

// TierRepository defines the persistence contract of the threshold registry
type TierRepository interface {
	// Upsert creates the tier or updates its threshold.
	// An existing tier keeps its registration position.
	Upsert(ctx context.Context, tier Tier) error

	// FindAll returns every tier in registration order
	FindAll(ctx context.Context) ([]Tier, error)
}
