package models

import (
	"time"

	"github.com/lewlewstore/backend/internal/domain/notification"
)

// LogChannelModel maps a guild to the channel receiving purchase notifications
type LogChannelModel struct {
	GuildID   string    `gorm:"type:varchar(32);primaryKey"`
	ChannelID string    `gorm:"type:varchar(32);not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LogChannelModel) TableName() string {
	return "log_channels"
}

// ToDomain converts the row to a domain LogChannel
func (m *LogChannelModel) ToDomain() notification.LogChannel {
	return notification.LogChannel{
		Scope:     m.GuildID,
		ChannelID: m.ChannelID,
		UpdatedAt: m.UpdatedAt,
	}
}

// LogChannelModelFromDomain builds a row from a domain LogChannel
func LogChannelModelFromDomain(c notification.LogChannel) *LogChannelModel {
	return &LogChannelModel{
		GuildID:   c.Scope,
		ChannelID: c.ChannelID,
		UpdatedAt: c.UpdatedAt,
	}
}
