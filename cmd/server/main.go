package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	membershipapp "github.com/lewlewstore/backend/internal/application/membership"
	notificationapp "github.com/lewlewstore/backend/internal/application/notification"
	"github.com/lewlewstore/backend/internal/domain/ledger"
	"github.com/lewlewstore/backend/internal/domain/notification"
	"github.com/lewlewstore/backend/internal/domain/role"
	"github.com/lewlewstore/backend/internal/domain/tier"
	"github.com/lewlewstore/backend/internal/infrastructure/auth"
	"github.com/lewlewstore/backend/internal/infrastructure/cache"
	"github.com/lewlewstore/backend/internal/infrastructure/config"
	"github.com/lewlewstore/backend/internal/infrastructure/discord"
	"github.com/lewlewstore/backend/internal/infrastructure/event"
	"github.com/lewlewstore/backend/internal/infrastructure/logger"
	"github.com/lewlewstore/backend/internal/infrastructure/persistence"
	"github.com/lewlewstore/backend/internal/infrastructure/telemetry"
	"github.com/lewlewstore/backend/internal/interfaces/http/handler"
	"github.com/lewlewstore/backend/internal/interfaces/http/middleware"
	"github.com/lewlewstore/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting LewLew Store backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database_driver", cfg.Database.Driver),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(),
		telemetry.ConfigFrom(cfg.Telemetry, cfg.App.Name), log.Named("telemetry"))
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Warn("Error shutting down tracing", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	if tracerProvider.IsEnabled() {
		if err := telemetry.RegisterGormTracing(db.DB, db.Driver, log); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	tierRepo := persistence.NewGormTierRepository(db.DB)
	logChannelRepo := persistence.NewGormLogChannelRepository(db.DB)

	// Running-total cache
	totalCache, err := cache.NewFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to initialize total cache", zap.Error(err))
	}
	ledgerOpts := []ledger.Option{ledger.WithLogger(log.Named("ledger"))}
	if totalCache != nil {
		defer func() {
			if err := totalCache.Close(); err != nil {
				log.Warn("Error closing total cache", zap.Error(err))
			}
		}()
		ledgerOpts = append(ledgerOpts, ledger.WithTotalCache(totalCache))
	}

	purchaseLedger := ledger.NewLedger(purchaseRepo, ledgerOpts...)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	registry, err := tier.NewRegistry(startupCtx, tierRepo)
	cancelStartup()
	if err != nil {
		log.Fatal("Failed to load tiers", zap.Error(err))
	}

	// Chat platform adapters
	roles, messenger := chatAdapters(cfg, log)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log.Named("events"))
	eventBus.Subscribe(event.NewAuditHandler(log.Named("audit")))
	eventBus.Subscribe(notificationapp.NewPurchaseNotifier(logChannelRepo, messenger, log.Named("notifier")))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	membershipService := membershipapp.NewService(purchaseLedger, registry, roles,
		membershipapp.WithEventPublisher(eventBus),
		membershipapp.WithLogger(log.Named("membership")),
		membershipapp.WithRankingLimits(cfg.Ranking.DefaultLimit, cfg.Ranking.MaxLimit),
	)
	notificationService := notificationapp.NewService(logChannelRepo, log.Named("notification"))

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// RequestID must run before the logger so every entry carries it
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		Enabled:     tracerProvider.IsEnabled(),
		ServiceName: cfg.App.Name,
		SkipPaths:   []string{"/health", "/api/v1/health"},
	})...)
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	systemHandler := handler.NewSystemHandler().
		AddCheck("database", func(context.Context) error { return db.Ping() })
	engine.GET("/health", systemHandler.Health)

	router.NewRouter(engine).
		Register(router.SystemRoutes{System: systemHandler}).
		Register(router.GuildRoutes{
			JWTService:   auth.NewJWTService(cfg.JWT),
			Membership:   handler.NewMembershipHandler(membershipService),
			Notification: handler.NewNotificationHandler(notificationService),
			Logger:       log.Named("http"),
		}).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Role updates scheduled by recorded purchases finish before the stores close
	drained := make(chan struct{})
	go func() {
		membershipService.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		log.Warn("Pending role reconciliations did not finish before shutdown")
	}

	if err := eventBus.Stop(context.Background()); err != nil {
		log.Warn("Error stopping event bus", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

// chatAdapters returns the Discord REST client when a bot token is configured,
// otherwise in-memory stand-ins for local development.
func chatAdapters(cfg *config.Config, log *zap.Logger) (role.RoleStore, notification.Messenger) {
	if cfg.Discord.Token == "" {
		log.Warn("No Discord token configured; roles and notifications stay in memory")
		return discord.NewMemoryRoleStore(log.Named("roles")), discord.NewLogMessenger(log.Named("messenger"))
	}

	client, err := discord.NewClient(cfg.Discord, discord.WithLogger(log.Named("discord")))
	if err != nil {
		log.Fatal("Failed to create Discord client", zap.Error(err))
	}
	return client, client
}
