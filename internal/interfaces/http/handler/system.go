package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lewlewstore/backend/internal/interfaces/http/dto"
)

const healthMessage = "Bot is running!"

// HealthChecker reports whether a dependency is reachable
type HealthChecker func(ctx context.Context) error

// SystemHandler handles the liveness endpoint
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	checks    map[string]HealthChecker
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		checks:    make(map[string]HealthChecker),
	}
}

// AddCheck registers a dependency probe reported by Health
func (h *SystemHandler) AddCheck(name string, check HealthChecker) *SystemHandler {
	h.checks[name] = check
	return h
}

// HealthStatus is the liveness payload
type HealthStatus struct {
	Status  string            `json:"status" example:"ok"`
	Message string            `json:"message" example:"Bot is running!"`
	Uptime  string            `json:"uptime" example:"1h30m45s"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Health godoc
// @ID           health
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthStatus]
// @Failure      503 {object} APIResponse[HealthStatus]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	status := HealthStatus{
		Status:  "ok",
		Message: healthMessage,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	}

	code := http.StatusOK
	if len(h.checks) > 0 {
		status.Checks = make(map[string]string, len(h.checks))
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		for name, check := range h.checks {
			if err := check(ctx); err != nil {
				status.Checks[name] = err.Error()
				status.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			status.Checks[name] = "ok"
		}
	}

	c.JSON(code, dto.Response{Success: code == http.StatusOK, Data: status})
}
