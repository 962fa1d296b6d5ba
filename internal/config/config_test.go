package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/mealkit")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_TIMEZONE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 72*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "Asia/Jakarta", cfg.Timezone.String())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/mealkit")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("JWT_TTL_HOURS", "12")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://sea.example, https://admin.sea.example")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 12*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, []string{"https://sea.example", "https://admin.sea.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.UTC, cfg.Timezone)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing database url", env: map[string]string{"DATABASE_URL": ""}},
		{name: "bad ttl", env: map[string]string{"DATABASE_URL": "x", "JWT_TTL_HOURS": "abc"}},
		{name: "non-positive ttl", env: map[string]string{"DATABASE_URL": "x", "JWT_TTL_HOURS": "0"}},
		{name: "bad timezone", env: map[string]string{"DATABASE_URL": "x", "APP_TIMEZONE": "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_TTL_HOURS", "")
			t.Setenv("APP_TIMEZONE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
