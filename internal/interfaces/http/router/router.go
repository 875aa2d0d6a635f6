package router

import (
	"github.com/gin-gonic/gin"
	"github.com/lewlewstore/backend/internal/infrastructure/auth"
	"github.com/lewlewstore/backend/internal/interfaces/http/handler"
	"github.com/lewlewstore/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// GuildRoutes registers the per-guild API.
// Every route requires a token issued for the guild; writes also require the admin claim.
type GuildRoutes struct {
	JWTService   *auth.JWTService
	Membership   *handler.MembershipHandler
	Notification *handler.NotificationHandler
	Logger       *zap.Logger
}

// RegisterRoutes implements RouteRegistrar
func (g GuildRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	jwtCfg := middleware.DefaultJWTConfig(g.JWTService)
	jwtCfg.Logger = g.Logger
	permCfg := middleware.PermissionConfig{Logger: g.Logger}

	guild := rg.Group("/guilds/:"+middleware.GuildParam,
		middleware.JWTAuthMiddlewareWithConfig(jwtCfg),
		middleware.RequireGuildAccessWithConfig(permCfg),
	)
	guild.GET("/customers/:customerId/status", g.Membership.Status)
	guild.GET("/ranking", g.Membership.Ranking)

	admin := guild.Group("", middleware.RequireAdminWithConfig(permCfg))
	admin.POST("/purchases", g.Membership.RecordPurchase)
	admin.GET("/tiers", g.Membership.ListTiers)
	admin.PUT("/tiers/:tierId", g.Membership.SetThreshold)
	admin.POST("/customers/:customerId/reconcile", g.Membership.Reconcile)
	admin.GET("/log-channel", g.Notification.GetLogChannel)
	admin.PUT("/log-channel", g.Notification.SetLogChannel)
}

// SystemRoutes registers the unauthenticated liveness endpoint
type SystemRoutes struct {
	System *handler.SystemHandler
}

// RegisterRoutes implements RouteRegistrar
func (s SystemRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", s.System.Health)
}
