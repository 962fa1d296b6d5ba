package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // containers often ship without zoneinfo

	"mealkit-service/internal/pkg/jwt"
)

type AppConfig struct {
	// Server
	HTTPAddr string
	AppEnv   string
	Timezone *time.Location

	// Storage
	DatabaseURL   string
	DBMaxConns    int32
	RunMigrations bool
	RedisAddr     string
	RedisPass     string

	// JWT
	JWT jwt.Config

	// Logging
	LogLevel string
	LogFile  string

	CORSAllowedOrigins []string

	// Bootstrap administrator
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func (c AppConfig) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads environment variables into AppConfig.
func Load() (AppConfig, error) {
	ttlHours, err := getEnvInt("JWT_TTL_HOURS", 72)
	if err != nil {
		return AppConfig{}, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return AppConfig{}, err
	}

	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "Asia/Jakarta"))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	cfg := AppConfig{
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
		AppEnv:   strings.ToLower(getEnv("APP_ENV", "development")),
		Timezone: loc,

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBMaxConns:    int32(maxConns),
		RunMigrations: strings.ToLower(getEnv("RUN_MIGRATIONS", "true")) == "true",
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:     getEnv("REDIS_PASS", ""),

		JWT: jwt.Config{
			PrivPath: getEnv("JWT_PRIVATE_KEY_PATH", "/app/secrets/jwt_private.pem"),
			PubPath:  getEnv("JWT_PUBLIC_KEY_PATH", "/app/secrets/jwt_public.pem"),
			Issuer:   getEnv("JWT_ISSUER", "mealkit-service"),
			Audience: getEnv("JWT_AUDIENCE", "mealkit-users"),
			TTL:      time.Duration(ttlHours) * time.Hour,
			KID:      "mealkit-key",
		},

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
	}

	if cfg.DatabaseURL == "" {
		return AppConfig{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWT.TTL <= 0 {
		return AppConfig{}, fmt.Errorf("JWT_TTL_HOURS must be positive")
	}

	return cfg, nil
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
