package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/lewlewstore/backend/internal/application/notification"
)

// LogChannelService is the application surface used by NotificationHandler
type LogChannelService interface {
	SetLogChannel(ctx context.Context, guildID string, req notification.SetLogChannelRequest) (*notification.LogChannelResponse, error)
	GetLogChannel(ctx context.Context, guildID string) (*notification.LogChannelResponse, error)
}

// Ensure *notification.Service implements LogChannelService
var _ LogChannelService = (*notification.Service)(nil)

// NotificationHandler handles the purchase log channel endpoints
type NotificationHandler struct {
	BaseHandler
	service LogChannelService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service LogChannelService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// SetLogChannel godoc
// @ID           setLogChannel
// @Summary      Set the channel that receives purchase notifications
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        guildId path string true "Guild ID"
// @Param        request body notification.SetLogChannelRequest true "Channel"
// @Success      200 {object} APIResponse[notification.LogChannelResponse]
// @Router       /guilds/{guildId}/log-channel [put]
func (h *NotificationHandler) SetLogChannel(c *gin.Context) {
	var req notification.SetLogChannelRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.SetLogChannel(c.Request.Context(), guildID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetLogChannel godoc
// @ID           getLogChannel
// @Summary      Show the configured purchase notification channel
// @Tags         notifications
// @Produce      json
// @Param        guildId path string true "Guild ID"
// @Success      200 {object} APIResponse[notification.LogChannelResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /guilds/{guildId}/log-channel [get]
func (h *NotificationHandler) GetLogChannel(c *gin.Context) {
	resp, err := h.service.GetLogChannel(c.Request.Context(), guildID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
