package persistence

import (
	"context"
	"time"

	"github.com/lewlewstore/backend/internal/domain/tier"
	"github.com/lewlewstore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTierRepository implements tier.TierRepository using GORM
type GormTierRepository struct {
	db *gorm.DB
}

// NewGormTierRepository creates a new GormTierRepository
func NewGormTierRepository(db *gorm.DB) *GormTierRepository {
	return &GormTierRepository{db: db}
}

// Upsert inserts the tier or updates its threshold in place, keeping its registration seq
func (r *GormTierRepository) Upsert(ctx context.Context, t tier.Tier) error {
	model := models.TierModelFromDomain(t)
	model.UpdatedAt = time.Now()

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tier_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"threshold", "updated_at"}),
		}).
		Create(model).Error
}

// FindAll returns every tier in registration order
func (r *GormTierRepository) FindAll(ctx context.Context) ([]tier.Tier, error) {
	var rows []models.TierModel
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	tiers := make([]tier.Tier, len(rows))
	for i := range rows {
		tiers[i] = rows[i].ToDomain()
	}
	return tiers, nil
}

// Ensure GormTierRepository implements tier.TierRepository
var _ tier.TierRepository = (*GormTierRepository)(nil)
