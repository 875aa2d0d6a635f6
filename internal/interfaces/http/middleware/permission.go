package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lewlewstore/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// GuildParam is the route parameter naming the guild
const GuildParam = "guildId"

const adminRequiredMessage = "administrator permission required"

// PermissionConfig holds configuration for authorization middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequireGuildAccess rejects tokens issued for a different guild than the one in the path.
// Must run after JWTAuthMiddleware.
func RequireGuildAccess() gin.HandlerFunc {
	return RequireGuildAccessWithConfig(PermissionConfig{})
}

// RequireGuildAccessWithConfig is RequireGuildAccess with custom config
func RequireGuildAccessWithConfig(cfg PermissionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		guildID := c.Param(GuildParam)
		if !claims.CanAccessGuild(guildID) {
			denyPermission(c, cfg, "token is not valid for this guild",
				zap.String("guild_id", guildID),
				zap.String("token_guild_id", claims.GuildID),
			)
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects callers without the administrator claim
func RequireAdmin() gin.HandlerFunc {
	return RequireAdminWithConfig(PermissionConfig{})
}

// RequireAdminWithConfig is RequireAdmin with custom config
func RequireAdminWithConfig(cfg PermissionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			denyPermission(c, cfg, adminRequiredMessage)
			return
		}
		c.Next()
	}
}

func denyPermission(c *gin.Context, cfg PermissionConfig, message string, fields ...zap.Field) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Permission denied",
			append([]zap.Field{
				zap.String("user_id", GetJWTUserID(c)),
				zap.String("path", c.Request.URL.Path),
				zap.String("reason", message),
			}, fields...)...,
		)
	}
	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, message, GetRequestID(c)))
}
