// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain types to keep the domain layer free from ORM concerns.
//
// Key Principles:
// 1. Domain types carry no GORM tags or infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Each model converts to and from its domain type
// 4. Repositories use persistence models for database operations
//
// Structure:
// - ledger.go: purchases table (append-only ledger rows)
// - tier.go: tiers table (threshold registry)
// - notification.go: log_channels table (per-guild purchase log channel)
package models

// AllModels returns every model managed by AutoMigrate, in dependency order
func AllModels() []any {
	return []any{
		&PurchaseModel{},
		&TierModel{},
		&LogChannelModel{},
	}
}
