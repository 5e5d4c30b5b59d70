// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Taslimapopi/lifelog-server/internal/admin"
	"github.com/Taslimapopi/lifelog-server/internal/auth"
	"github.com/Taslimapopi/lifelog-server/internal/comment"
	"github.com/Taslimapopi/lifelog-server/internal/config"
	"github.com/Taslimapopi/lifelog-server/internal/core"
	"github.com/Taslimapopi/lifelog-server/internal/health"
	"github.com/Taslimapopi/lifelog-server/internal/lesson"
	"github.com/Taslimapopi/lifelog-server/internal/middleware"
	"github.com/Taslimapopi/lifelog-server/internal/payment"
	"github.com/Taslimapopi/lifelog-server/internal/server"
	"github.com/Taslimapopi/lifelog-server/internal/user"
)

const (
	drainDelay = 5 * time.Second
	banner     = "lifeLog is running now"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Mongo, telemetry != nil)
	if err != nil {
		return err
	}
	logger.Info("mongo connected",
		"database", cfg.Mongo.Database,
		"max_pool_size", cfg.Mongo.MaxPoolSize,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	cache := core.NewCache(redis.Client, cfg.Cache.Prefix)

	verifier, err := auth.NewFirebaseVerifierFromConfig(cfg.Firebase)
	if err != nil {
		return err
	}
	logger.Info("firebase verifier initialized",
		"project_id", verifier.ProjectID(),
	)

	userRepo := user.NewRepository(db.DB)
	lessonRepo := lesson.NewRepository(db.DB)
	reportLog := lesson.NewReportLog(db.DB)
	commentRepo := comment.NewRepository(db.DB)
	paymentRepo := payment.NewRepository(db.DB)

	if err := core.EnsureIndexes(ctx,
		userRepo, lessonRepo, reportLog, commentRepo, paymentRepo,
	); err != nil {
		return err
	}

	userSvc := user.NewService(userRepo, cfg.Pagination.MaxLimit)
	lessonSvc := lesson.NewService(lessonRepo, reportLog, commentRepo, cache, lesson.ServiceConfig{
		MaxLimit: cfg.Pagination.MaxLimit,
		StatsTTL: cfg.Cache.StatsTTL,
	})
	commentSvc := comment.NewService(commentRepo, lessonSvc)
	paymentSvc := payment.NewService(
		payment.NewStripeProvider(cfg.Stripe.SecretKey, nil),
		paymentRepo,
		userSvc,
		payment.ServiceConfig{
			Currency:   cfg.Stripe.Currency,
			SuccessURL: cfg.Site.CheckoutSuccessURL(),
			CancelURL:  cfg.Site.CheckoutCancelURL(),
		},
	)

	userHandler := user.NewHandler(userSvc)
	authHandler := auth.NewHandler(userSvc)
	lessonHandler := lesson.NewHandler(lessonSvc)
	commentHandler := comment.NewHandler(commentSvc)
	paymentHandler := payment.NewHandler(paymentSvc, cfg.Stripe.WebhookSecret)

	healthHandler := health.NewHandler(
		health.NamedChecker{Name: "mongo", Checker: db},
		health.NamedChecker{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
		ServiceName:   cfg.Otel.ServiceName,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	checkoutLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(cfg.RateLimit.CheckoutRequests, cfg.RateLimit.CheckoutRequests),
		KeyFunc:  middleware.KeyByIPAndRoute,
		FailOpen: true,
	}).Handler
	reportLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(cfg.RateLimit.ReportRequests, cfg.RateLimit.ReportRequests),
		KeyFunc:  middleware.KeyByRoute(middleware.KeyByEmail),
		FailOpen: true,
	}).Handler
	// verified reporters are limited per account, anonymous ones per ip
	reportGuard := func(next http.Handler) http.Handler {
		return middleware.OptionalAuth(verifier)(reportLimiter(next))
	}

	router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(banner))
	})
	router.Handle("/metrics", promhttp.Handler())

	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(verifier)
	adminOnly := middleware.RequireRole(userSvc, user.RoleAdmin)

	authHandler.RegisterRoutes(router, authenticator)
	userHandler.RegisterRoutes(router)
	lessonHandler.RegisterRoutes(router, authenticator, reportGuard,
		commentHandler.RegisterRoutes,
	)
	paymentHandler.RegisterRoutes(router, checkoutLimiter)
	adminHandler.RegisterRoutes(router, authenticator, adminOnly)

	if cfg.Stripe.WebhookSecret == "" {
		logger.Warn("stripe webhook secret not set, /webhooks/stripe disabled")
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(shutdownCtx); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
