package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the sidecar daemon.
type Config struct {
	Port string
	Env  string

	// Queue storage
	QueueBackend string // "file", "sqlite", "postgres", or "redis"
	QueuePath    string
	SQLitePath   string
	DatabaseURL  string
	RedisURL     string
	Namespace    string // isolates queues sharing a redis instance

	// Collaborators
	UpstreamURL  string // chat-send endpoint replayed messages are forwarded to
	CognitiveURL string // optional cognitive-metadata snapshot endpoint

	// Connectivity probe
	ProbeAddr     string
	ProbeInterval time.Duration

	DeviceClass string
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8090"),
		Env:           getEnv("ENV", "development"),
		QueueBackend:  getEnv("QUEUE_BACKEND", "file"),
		QueuePath:     getEnv("QUEUE_PATH", "./data/boardroom-queue.json"),
		SQLitePath:    getEnv("SQLITE_PATH", "./data/boardroom.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		Namespace:     getEnv("QUEUE_NAMESPACE", "default"),
		UpstreamURL:   os.Getenv("UPSTREAM_URL"),
		CognitiveURL:  os.Getenv("COGNITIVE_URL"),
		ProbeAddr:     os.Getenv("PROBE_ADDR"),
		ProbeInterval: getEnvSeconds("PROBE_INTERVAL_SECONDS", 15),
		DeviceClass:   getEnv("DEVICE_CLASS", "desktop"),
	}

	// Backends with external state need their URLs up front.
	switch cfg.QueueBackend {
	case "postgres":
		if cfg.DatabaseURL == "" {
			panic("DATABASE_URL is required for the postgres queue backend")
		}
	case "redis":
		if cfg.RedisURL == "" {
			panic("REDIS_URL is required for the redis queue backend")
		}
	}

	// In production, replay must have somewhere to deliver.
	if cfg.Env == "production" && cfg.UpstreamURL == "" {
		panic("UPSTREAM_URL is required in production")
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(defaultSeconds) * time.Second
}
