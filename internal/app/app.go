package app

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/storekit/server/internal/module/order"
	"github.com/storekit/server/internal/module/payment"
	"github.com/storekit/server/internal/module/paymentmethod"
	"github.com/storekit/server/internal/module/statemachine"
	sharedcache "github.com/storekit/server/internal/shared/cache"
	"github.com/storekit/server/internal/shared/config"
	"github.com/storekit/server/internal/shared/database"
	"github.com/storekit/server/internal/shared/logger"
	"github.com/storekit/server/internal/shared/metrics"
	"github.com/storekit/server/internal/shared/middleware"
	"github.com/storekit/server/internal/shared/salescontext"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App represents the application.
type App struct {
	config *config.Config
	db     *gorm.DB
	redis  redis.UniversalClient
	router *gin.Engine
	logger *zap.Logger

	// Modules
	orderHandler         *order.Handler
	paymentHandler       *payment.Handler
	paymentMethodHandler *paymentmethod.Handler

	// Services (for cross-module dependencies)
	engineService        *statemachine.Service
	orderService         *order.Service
	paymentService       *payment.Service
	paymentMethodService *paymentmethod.Service
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	app := &App{
		config: cfg,
		logger: log,
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	if err := db.AutoMigrate(
		&order.Order{},
		&order.OrderTransaction{},
		&paymentmethod.PaymentMethod{},
		&paymentmethod.SalesChannelAssignment{},
		&statemachine.HistoryEntry{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	redisClient, err := sharedcache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	app.redis = redisClient

	m := metrics.New("storekit")

	// Modules
	engineRepo := statemachine.NewRepository(db)
	app.engineService = statemachine.NewService(statemachine.NewRegistry(), engineRepo, m, log)

	orderRepo := order.NewRepository(db)
	app.orderService = order.NewService(orderRepo, app.engineService, log)
	app.orderHandler = order.NewHandler(app.orderService)

	pmRepo := paymentmethod.NewRepository(db)
	app.paymentMethodService = paymentmethod.NewService(pmRepo)
	app.paymentMethodHandler = paymentmethod.NewHandler(app.paymentMethodService)

	app.paymentService = payment.NewService(orderRepo, app.paymentMethodService, app.engineService, log)
	app.paymentHandler = payment.NewHandler(app.paymentService, m)

	// Router
	salesChannelID, err := parseSalesChannelID(cfg.Session.SalesChannelID)
	if err != nil {
		return nil, err
	}

	sessionStore := salescontext.NewStore(redisClient, cfg.Session.TTL)
	validator := middleware.NewTokenValidator(cfg.Auth.JWTSecret)

	router := gin.New()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logging(log),
		middleware.Metrics(m),
		cors.Default(),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	storeMiddleware := []gin.HandlerFunc{
		middleware.CustomerAuth(validator, true),
	}
	if cfg.RateLimit.Enabled {
		limiter := sharedcache.NewRateLimiter(redisClient)
		storeMiddleware = append(storeMiddleware,
			middleware.RateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window))
	}
	storeMiddleware = append(storeMiddleware,
		middleware.SalesContext(sessionStore, salesChannelID, cfg.Session.Currency, log),
		middleware.Idempotency(redisClient, middleware.DefaultIdempotencyTTL, log),
	)

	store := router.Group("/store-api", storeMiddleware...)
	app.orderHandler.RegisterRoutes(store)
	app.paymentHandler.RegisterRoutes(store)
	app.paymentMethodHandler.RegisterRoutes(store)

	app.router = router
	return app, nil
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases application resources.
func (a *App) Stop() {
	if a.redis != nil {
		if err := sharedcache.Close(a.redis); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func parseSalesChannelID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("session.sales_channel_id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse session.sales_channel_id: %w", err)
	}
	return id, nil
}
