package notification

import (
	"context"
	"time"

	"github.com/lewlewstore/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// SetLogChannelRequest represents a request to configure the purchase log channel
type SetLogChannelRequest struct {
	ChannelID string `json:"channel_id" binding:"required,max=32"`
}

// LogChannelResponse represents a log channel in API responses
type LogChannelResponse struct {
	GuildID   string    `json:"guild_id"`
	ChannelID string    `json:"channel_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service manages per-guild notification settings
type Service struct {
	repo   notification.LogChannelRepository
	logger *zap.Logger
}

// NewService creates a new notification Service
func NewService(repo notification.LogChannelRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// SetLogChannel creates or replaces the guild's log channel
func (s *Service) SetLogChannel(ctx context.Context, guildID string, req SetLogChannelRequest) (*LogChannelResponse, error) {
	channel, err := notification.NewLogChannel(guildID, req.ChannelID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, channel); err != nil {
		return nil, err
	}

	s.logger.Info("Log channel set",
		zap.String("guild_id", guildID),
		zap.String("channel_id", channel.ChannelID),
	)
	return &LogChannelResponse{
		GuildID:   channel.Scope,
		ChannelID: channel.ChannelID,
		UpdatedAt: channel.UpdatedAt,
	}, nil
}

// GetLogChannel returns the guild's log channel
func (s *Service) GetLogChannel(ctx context.Context, guildID string) (*LogChannelResponse, error) {
	channel, err := s.repo.FindByScope(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return &LogChannelResponse{
		GuildID:   channel.Scope,
		ChannelID: channel.ChannelID,
		UpdatedAt: channel.UpdatedAt,
	}, nil
}
