package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lewlewstore/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func newGuardedRouter() *gin.Engine {
	router := gin.New()
	guild := router.Group("/guilds/:guildId", JWTAuthMiddleware(newTestJWTService()), RequireGuildAccess())
	guild.GET("/status", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	guild.PUT("/tiers", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequireGuildAccess(t *testing.T) {
	jwtService := newTestJWTService()
	router := newGuardedRouter()

	t.Run("allows token for the same guild", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/guilds/"+testGuildID+"/status", nil)
		req.Header.Set("Authorization", "Bearer "+newTestToken(t, jwtService, testGuildID, false))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects token for another guild", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/guilds/999/status", nil)
		req.Header.Set("Authorization", "Bearer "+newTestToken(t, jwtService, testGuildID, true))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, dto.ErrCodeForbidden, decodeError(t, rec).Code)
	})

	t.Run("requires prior authentication", func(t *testing.T) {
		r := gin.New()
		r.GET("/guilds/:guildId", RequireGuildAccess(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guilds/1", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	jwtService := newTestJWTService()
	router := newGuardedRouter()

	t.Run("allows administrators", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/guilds/"+testGuildID+"/tiers", nil)
		req.Header.Set("Authorization", "Bearer "+newTestToken(t, jwtService, testGuildID, true))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects members without the admin claim", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/guilds/"+testGuildID+"/tiers", nil)
		req.Header.Set("Authorization", "Bearer "+newTestToken(t, jwtService, testGuildID, false))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		errInfo := decodeError(t, rec)
		assert.Equal(t, dto.ErrCodeForbidden, errInfo.Code)
		assert.Equal(t, "administrator permission required", errInfo.Message)
	})
}
