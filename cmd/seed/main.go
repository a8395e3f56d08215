// seed は管理者アカウント（admin@example.com）とホストの専門分野を投入します。
// 実行: go run ./cmd/seed
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	gormlogger "gorm.io/gorm/logger"

	"erasmus_backend/internal/app/di"
	"erasmus_backend/internal/app/seed"
	"erasmus_backend/internal/config"
	authadapters "erasmus_backend/internal/feature/auth/adapters"
	hostadapters "erasmus_backend/internal/feature/host/adapters"
	infradb "erasmus_backend/internal/platform/db"
	"erasmus_backend/internal/platform/logging"
	"erasmus_backend/internal/platform/password"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.IsLocal(), cfg.SlogLevel())
	slog.SetDefault(logger)

	db, err := infradb.Open(infradb.Config{
		URL:            cfg.DatabaseURL,
		ConnectTimeout: cfg.DBConnectTimeout,
		LogLevel:       gormlogger.Warn,
	})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := infradb.Migrate(db, di.Models()...); err != nil {
		log.Fatalf("db: %v", err)
	}

	s := seed.NewSeeder(
		authadapters.NewUserRepository(db),
		hostadapters.NewSpecialityRepository(db),
		password.NewHasher(bcrypt.DefaultCost),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		log.Fatal(err)
	}
	logger.Info("seed ok")
}
