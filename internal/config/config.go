package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
	MinConns int
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	// Enabled toggles the per-client sliding window on order creation.
	Enabled bool
	Limit   int
	Window  time.Duration
}

type AuditConfig struct {
	PruneEnabled bool
	// PruneRunAt is the daily prune time in "HH:MM" (24h).
	PruneRunAt string
	// Retention is how long api_usage rows are kept before pruning.
	Retention time.Duration
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverPort, err := envInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pgPort, err := envInt("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pgMinConns, err := envInt("POSTGRES_MIN_CONNS", 2)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pgMaxConns, err := envInt("POSTGRES_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pgUser, err := envRequired("POSTGRES_USER")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pgPassword, err := envRequired("POSTGRES_PASSWORD")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pgName, err := envRequired("POSTGRES_DB")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisDB, err := envInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rlLimit, err := envInt("RATE_LIMIT_ORDERS", 30)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rlWindow, err := envDuration("RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	retentionDays, err := envInt("AUDIT_RETENTION_DAYS", 90)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Config{
		Server: ServerConfig{
			Host: envDefault("SERVER_HOST", "localhost"),
			Port: serverPort,
		},
		Postgres: PostgresConfig{
			User:     pgUser,
			Password: pgPassword,
			Name:     pgName,
			Host:     envDefault("POSTGRES_HOST", "localhost"),
			Port:     pgPort,
			SSLMode:  envDefault("POSTGRES_SSLMODE", "disable"),
			MinConns: pgMinConns,
			MaxConns: pgMaxConns,
		},
		Redis: RedisConfig{
			Addr:     envDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			Enabled: envBool("RATE_LIMIT_ENABLED", true),
			Limit:   rlLimit,
			Window:  rlWindow,
		},
		Audit: AuditConfig{
			PruneEnabled: envBool("AUDIT_PRUNE_ENABLED", true),
			PruneRunAt:   envDefault("AUDIT_PRUNE_RUN_AT", "03:00"),
			Retention:    time.Duration(retentionDays) * 24 * time.Hour,
		},
	}, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envRequired(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("missing %s", key)
	}
	return v, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func envBool(key string, def bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
