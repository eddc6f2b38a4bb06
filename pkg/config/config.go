package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// WindowPolicy decides what happens when a reservation's scheduled date cannot
// be parsed while validating a task's scheduling window.
//
// - lenient: log and skip the window check (historical behavior).
// - strict: reject the task with a validation failure.
type WindowPolicy string

const (
	WindowLenient WindowPolicy = "lenient"
	WindowStrict  WindowPolicy = "strict"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	// SessionSecret verifies the HS256 session tokens issued by the
	// authentication collaborator. Required in prod; in dev the X-User-ID
	// header fallback keeps local testing simple.
	SessionSecret string

	// TaskWindowPolicy governs task scheduling validation against the
	// reservation's event date.
	TaskWindowPolicy WindowPolicy

	// SeedDemoData gates cmd/dev/seed. The seeder refuses to run unless this
	// is explicitly set to true.
	SeedDemoData bool
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "eventbooking"),
			User:     env("DB_USER", "eventbooking"),
			Password: env("DB_PASSWORD", "eventbooking"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		TaskWindowPolicy: windowPolicy(env("TASK_WINDOW_POLICY", string(WindowLenient))),
		SeedDemoData:     strings.EqualFold(os.Getenv("SEED_DEMO_DATA"), "true"),
	}
}

func windowPolicy(v string) WindowPolicy {
	if strings.EqualFold(v, string(WindowStrict)) {
		return WindowStrict
	}
	return WindowLenient
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
