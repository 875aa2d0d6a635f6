package persistence

import (
	"context"
	"errors"

	"github.com/lewlewstore/backend/internal/domain/notification"
	"github.com/lewlewstore/backend/internal/domain/shared"
	"github.com/lewlewstore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLogChannelRepository implements notification.LogChannelRepository using GORM
type GormLogChannelRepository struct {
	db *gorm.DB
}

// NewGormLogChannelRepository creates a new GormLogChannelRepository
func NewGormLogChannelRepository(db *gorm.DB) *GormLogChannelRepository {
	return &GormLogChannelRepository{db: db}
}

// Save creates or replaces the guild's log channel
func (r *GormLogChannelRepository) Save(ctx context.Context, channel notification.LogChannel) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"channel_id", "updated_at"}),
		}).
		Create(models.LogChannelModelFromDomain(channel)).Error
}

// FindByScope returns the guild's log channel
func (r *GormLogChannelRepository) FindByScope(ctx context.Context, scope string) (notification.LogChannel, error) {
	var row models.LogChannelModel
	if err := r.db.WithContext(ctx).Where("guild_id = ?", scope).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notification.LogChannel{}, shared.ErrNotFound
		}
		return notification.LogChannel{}, err
	}
	return row.ToDomain(), nil
}

// Ensure GormLogChannelRepository implements notification.LogChannelRepository
var _ notification.LogChannelRepository = (*GormLogChannelRepository)(nil)
