package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "salesanalytics/api/swagger" // swagger docs
	"salesanalytics/internal/analytics"
	"salesanalytics/internal/config"
	"salesanalytics/internal/database"
	"salesanalytics/internal/handler"
	"salesanalytics/internal/metrics"
	"salesanalytics/internal/middleware"
	"salesanalytics/internal/queue"
	"salesanalytics/internal/recommendation"
	"salesanalytics/internal/repository"
	"salesanalytics/internal/service"
	"salesanalytics/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// @title           Sales Analytics API
// @version         1.0
// @description     Live sales analytics: order ingestion, rolling statistics, top products and recommendations.
// @host            localhost:8080
// @BasePath        /
func main() {
	cfg := config.Load()
	logger := setupLogger(cfg.AppEnv)
	slog.SetDefault(logger)
	if cfg.AppEnv == envProd {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	m := metrics.New(nil)

	orderRepo, statsRepo, revenueRepo, err := newRepositories(cfg, logger)
	if err != nil {
		return err
	}

	// Rebuild derived state from the order log before accepting traffic
	engine := analytics.NewEngine(analytics.EngineConfig{
		TopProducts:  cfg.TopProductsLimit,
		RecentOrders: cfg.RecentOrdersLimit,
	}, time.Now)
	replayed, err := engine.Replay(ctx, orderRepo)
	if err != nil {
		return err
	}
	logger.Info("aggregates rebuilt from order store", "orders", replayed)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(cfg.WSSendBuffer, logger, m)
	go wsHub.Run(ctx)

	recs := recommendation.NewEngine(recommendation.DefaultRules(recommendation.Thresholds{
		TopSharePct:   cfg.RecTopSharePct,
		SurgePct:      cfg.RecSurgePct,
		LowStockUnits: cfg.RecLowStockUnits,
	}), logger, m)
	dispatcher := service.NewUpdateDispatcher(engine, recs, wsHub, cfg.DebounceInterval, cfg.RefreshInterval, logger, m)
	go dispatcher.Run(ctx)
	dispatcher.Notify()

	orderCfg := service.OrderServiceConfig{
		Repo:      orderRepo,
		Engine:    engine,
		Publisher: wsHub,
		Notifier:  dispatcher,
		Logger:    logger,
		Metrics:   m,
	}
	if len(cfg.KafkaBrokers) > 0 {
		mirror := queue.NewOrderMirror(queue.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic}, logger, m)
		defer func() { _ = mirror.Close() }()
		go mirror.Run(ctx)
		orderCfg.Mirror = mirror
		logger.Info("mirroring orders to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	orderService := service.NewOrderService(orderCfg)

	var writeGuards []gin.HandlerFunc
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opt)
		defer func() { _ = client.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, rate limiting will allow requests until it recovers", "error", err)
		}
		cancel()
		writeGuards = append(writeGuards, middleware.RateLimiter(middleware.NewRedisCounter(client), cfg.RateLimitRequests, cfg.RateLimitWindow, logger))
	}

	// Initialize Handlers
	orderHandler := handler.NewOrderHandler(orderService, writeGuards...)
	analyticsHandler := handler.NewAnalyticsHandler(engine)
	recommendationHandler := handler.NewRecommendationHandler(recs)
	statisticsHandler := handler.NewStatisticsHandler(
		service.NewStatisticsService(statsRepo, cfg.TopProductsLimit),
		service.NewRevenueService(revenueRepo),
	)

	// Set up Gin Router
	router := gin.Default()
	router.Use(m.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "store": cfg.OrderStore, "ordersApplied": engine.Version()})
	})
	router.GET("/ws", wsHub.ServeWs)

	api := router.Group("")
	orderHandler.RegisterRoutes(api)
	analyticsHandler.RegisterRoutes(api)
	recommendationHandler.RegisterRoutes(api)
	statisticsHandler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newRepositories(cfg *config.Config, logger *slog.Logger) (repository.OrderRepository, repository.StatisticsRepository, repository.RevenueRepository, error) {
	switch cfg.OrderStore {
	case "memory":
		logger.Warn("using in-memory order store, orders will not survive a restart")
		repo := repository.NewMemoryOrderRepository()
		return repo, repo, repo, nil
	case "postgres", "":
		db, err := database.NewConnection(cfg.DB.DSN())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		logger.Info("connected to postgres", "host", cfg.DB.Host, "database", cfg.DB.Name)
		return repository.NewOrderRepository(db), repository.NewStatisticsRepository(db), repository.NewRevenueRepository(db), nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown ORDER_STORE %q", cfg.OrderStore)
	}
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
}
