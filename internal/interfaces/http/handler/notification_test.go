package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lewlewstore/backend/internal/application/notification"
	"github.com/lewlewstore/backend/internal/domain/shared"
	"github.com/lewlewstore/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newNotificationRouter(svc LogChannelService) *gin.Engine {
	h := NewNotificationHandler(svc)
	r := gin.New()
	r.PUT("/guilds/:guildId/log-channel", h.SetLogChannel)
	r.GET("/guilds/:guildId/log-channel", h.GetLogChannel)
	return r
}

func TestNotificationHandler_SetLogChannel(t *testing.T) {
	t.Run("saves channel for the path guild", func(t *testing.T) {
		svc := new(MockLogChannelService)
		svc.On("SetLogChannel", mock.Anything, testGuildID, notification.SetLogChannelRequest{ChannelID: "5500"}).
			Return(&notification.LogChannelResponse{GuildID: testGuildID, ChannelID: "5500", UpdatedAt: time.Now()}, nil).Once()

		rec := doRequest(newNotificationRouter(svc), http.MethodPut, "/guilds/"+testGuildID+"/log-channel", `{"channel_id":"5500"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		data := decodeResponse(t, rec).Data.(map[string]any)
		assert.Equal(t, "5500", data["channel_id"])
		svc.AssertExpectations(t)
	})

	t.Run("requires channel id", func(t *testing.T) {
		svc := new(MockLogChannelService)

		rec := doRequest(newNotificationRouter(svc), http.MethodPut, "/guilds/"+testGuildID+"/log-channel", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "SetLogChannel", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNotificationHandler_GetLogChannel(t *testing.T) {
	svc := new(MockLogChannelService)
	svc.On("GetLogChannel", mock.Anything, testGuildID).Return(nil, shared.ErrNotFound).Once()

	rec := doRequest(newNotificationRouter(svc), http.MethodGet, "/guilds/"+testGuildID+"/log-channel", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, rec).Error.Code)
}
