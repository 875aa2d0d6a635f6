package models

import (
	"time"

	"github.com/lewlewstore/backend/internal/domain/tier"
)

// TierModel is one tier row. Seq preserves registration order across updates.
type TierModel struct {
	Seq       uint64    `gorm:"primaryKey;autoIncrement"`
	TierID    string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_tiers_tier_id"`
	Threshold int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TierModel) TableName() string {
	return "tiers"
}

// ToDomain converts the row to a domain Tier
func (m *TierModel) ToDomain() tier.Tier {
	return tier.Tier{ID: m.TierID, Threshold: m.Threshold}
}

// TierModelFromDomain builds a row from a domain Tier
func TierModelFromDomain(t tier.Tier) *TierModel {
	now := time.Now()
	return &TierModel{
		TierID:    t.ID,
		Threshold: t.Threshold,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
