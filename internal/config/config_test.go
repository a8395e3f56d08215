package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "local")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.True(t, cfg.IsLocal())
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.CORSAllowedOrigins)
}

func TestLoad_EnvSecretWins(t *testing.T) {
	t.Setenv("ENV", "local")
	t.Setenv("JWT_SECRET", "from-the-environment")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-the-environment", cfg.JWTSecret)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_ProductionRejectsShortSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ENV", "moon")
	t.Setenv("JWT_SECRET", "a-very-long-secret-that-is-at-least-32-chars")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level}
			assert.Equal(t, tt.want, cfg.SlogLevel())
		})
	}
}
