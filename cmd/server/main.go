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
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/valeriaulyamaeva/finflow/internal/auth"
	"github.com/valeriaulyamaeva/finflow/internal/config"
	"github.com/valeriaulyamaeva/finflow/internal/database"
	"github.com/valeriaulyamaeva/finflow/internal/database/memory"
	"github.com/valeriaulyamaeva/finflow/internal/middleware"
	"github.com/valeriaulyamaeva/finflow/internal/routes"
	"github.com/valeriaulyamaeva/finflow/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	if err := cfg.Log.Apply(logrus.StandardLogger()); err != nil {
		logrus.Fatal(err)
	}
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		logrus.Warn("JWT_SECRET is not set; using the built-in development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, healthCheck, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer closeStore()

	scheduler := cron.New()
	limiter, closeLimiter, err := newLimiter(cfg, scheduler)
	if err != nil {
		logrus.Fatal(err)
	}
	defer closeLimiter()
	scheduler.Start()
	defer scheduler.Stop()

	tokens := auth.NewTokens(cfg.JWTSecret)
	router, err := routes.SetupRouter(service.NewServices(store, tokens), tokens, routes.Options{
		Limiter:     limiter,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logrus.StandardLogger(),
		HealthCheck: healthCheck,
		PublicURL:   cfg.BaseURL(),
	})
	if err != nil {
		logrus.Fatal(err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("http server stopped")
		}
	}()

	base := cfg.BaseURL()
	logrus.WithFields(logrus.Fields{
		"addr": cfg.Addr(),
		"api":  base + "/api",
		"docs": base + "/api/docs",
	}).Info("HTTP server running")

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}

// openStore connects to PostgreSQL when DATABASE_URL is set and falls back
// to the in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config) (database.Store, func(context.Context) error, func(), error) {
	if cfg.DatabaseURL == "" {
		logrus.Warn("DATABASE_URL is not set; data is kept in memory and lost on exit")
		return memory.New(), nil, func() {}, nil
	}

	if cfg.MigrateOnStart {
		if err := database.MigrateUp(cfg.DatabaseURL); err != nil {
			return nil, nil, nil, err
		}
		logrus.Info("database migrations applied")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	return database.NewPostgres(pool), pool.Ping, pool.Close, nil
}

// newLimiter shares counters through Redis when REDIS_URL is set and keeps
// them in process otherwise.
func newLimiter(cfg *config.Config, scheduler *cron.Cron) (middleware.Limiter, func(), error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(opts)
		logrus.WithField("addr", opts.Addr).Info("rate limiter backed by redis")
		return middleware.NewRedisLimiter(client, cfg.RateLimit.Max, cfg.RateLimit.Window), func() { _ = client.Close() }, nil
	}

	limiter := middleware.NewMemoryLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)
	if err := limiter.ScheduleSweep(scheduler, time.Minute); err != nil {
		return nil, nil, err
	}
	return limiter, func() {}, nil
}
