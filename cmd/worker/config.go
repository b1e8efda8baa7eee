package main

import (
	"log"
	"os"
	"strconv"

	"agency-erp/internal/config"
)

// Config holds worker-only settings; phần còn lại lấy từ config.Config
type Config struct {
	RedisAddr   string
	HealthPort  string
	Concurrency int
}

// loadConfig đọc các biến WORKER_* và lấy Redis từ config chung
func loadConfig(app *config.Config) *Config {
	cfg := &Config{
		RedisAddr:   app.Redis.Host,
		HealthPort:  envOr("WORKER_HEALTH_PORT", "9999"),
		Concurrency: 5,
	}

	if raw := os.Getenv("WORKER_CONCURRENCY"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.Concurrency = n
		}
	}

	log.Printf("[Config] Redis: %s, concurrency: %d", cfg.RedisAddr, cfg.Concurrency)
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
