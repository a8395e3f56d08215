package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	redisv9 "github.com/redis/go-redis/v9"
	gormlogger "gorm.io/gorm/logger"

	"erasmus_backend/internal/app/di"
	"erasmus_backend/internal/config"
	infradb "erasmus_backend/internal/platform/db"
	"erasmus_backend/internal/platform/logging"
	"erasmus_backend/internal/platform/metrics"
	"erasmus_backend/internal/platform/realtime"
	infraredis "erasmus_backend/internal/platform/redis"
	"erasmus_backend/internal/platform/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.IsLocal(), cfg.SlogLevel())
	slog.SetDefault(logger)

	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.Open(infradb.Config{
		URL:            cfg.DatabaseURL,
		ConnectTimeout: cfg.DBConnectTimeout,
		LogLevel:       gormlogger.Warn,
	})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if cfg.RunMigrations {
		if err := infradb.Migrate(db, di.Models()...); err != nil {
			log.Fatalf("db: %v", err)
		}
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	moderator, closeModerator, err := di.NewModerator(ctx, cfg)
	if err != nil {
		log.Fatalf("moderation: %v", err)
	}
	defer closeModerator()

	store, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	metrics.Register(prometheus.DefaultRegisterer)

	handler := di.NewHTTPHandler(di.Deps{
		DB:             db,
		Redis:          rdb,
		Logger:         logger,
		Registerer:     prometheus.DefaultRegisterer,
		Moderator:      moderator,
		Store:          store,
		Hub:            realtime.NewHub(),
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTTTL,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Locations:      di.NewLocationRepository(cfg, rdb),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, prometheus.DefaultGatherer)

	go func() {
		slog.Info("server started", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		slog.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics server shutdown", "error", err)
	}
}
