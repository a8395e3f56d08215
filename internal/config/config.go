// Package config は起動時に一度だけプロセス全体の設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// devJWTSecret はENV=localかつJWT_SECRETが未設定の場合にのみ使われます。
const devJWTSecret = "local-development-secret-change-me-please"

// ErrMissingJWTSecret はlocal以外の環境でJWT_SECRETが未設定の場合に返されます。
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required outside of ENV=local")

// Config はLoadで一度だけ生成され、明示的に受け渡されます。生成後に変更されることはありません。
type Config struct {
	Env         string `env:"ENV"          envDefault:"local" validate:"required,oneof=local staging production"`
	Port        string `env:"PORT"         envDefault:"8080"  validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"  validate:"oneof=debug info warn error"`

	DatabaseURL      string        `env:"DATABASE_URL"       envDefault:"sqlite://erasmus.db" validate:"required"`
	DBConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"60s"`
	RunMigrations    bool          `env:"RUN_MIGRATIONS"     envDefault:"true"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"60m" validate:"gt=0"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"24h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:4200"`
	UploadDir          string   `env:"UPLOAD_DIR"           envDefault:"uploads"`

	CountriesAPIBaseURL   string        `env:"COUNTRIES_API_BASE_URL"   envDefault:"https://countriesnow.space/api/v0.1" validate:"url"`
	CountriesAPITimeout   time.Duration `env:"COUNTRIES_API_TIMEOUT"    envDefault:"10s"`
	CountriesAPIRateLimit int           `env:"COUNTRIES_API_RATE_LIMIT" envDefault:"30" validate:"min=1"`

	ModerationEnabled bool   `env:"MODERATION_ENABLED" envDefault:"false"`
	GeminiModel       string `env:"GEMINI_MODEL"       envDefault:"gemini-2.5-flash"`
}

// Load は環境変数を読み込み、JWTシークレットの優先順位を適用して検証します。
//
// 環境変数のJWT_SECRETが常に優先されます。未設定の場合、開発用シークレットは
// ENV=localでのみ使われ（警告をログに出す）、それ以外の環境では起動に失敗します。
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.resolveJWTSecret(); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) resolveJWTSecret() error {
	if c.JWTSecret != "" {
		if c.Env != "local" && len(c.JWTSecret) < 32 {
			return fmt.Errorf("invalid config: JWT_SECRET must be at least 32 characters in %s", c.Env)
		}
		return nil
	}
	if c.Env != "local" {
		return ErrMissingJWTSecret
	}
	slog.Warn("JWT_SECRET is not set, using the development secret. Set a strong secret in production.")
	c.JWTSecret = devJWTSecret
	return nil
}

// SlogLevel はLOG_LEVELをslogのレベルに変換します。
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsLocal はローカル開発環境で動作しているかを返します。
func (c *Config) IsLocal() bool {
	return c.Env == "local"
}
