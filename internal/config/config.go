// Package config loads daemon configuration from environment variables.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for NotifyD.
type Config struct {
	Port   string
	DBPath string

	TelegramToken string
	WebhookSecret string
	WebhookBase   string

	BroadcastWorkers int
	BroadcastRate    float64 // sends per second across the whole pool
	SendTimeoutSecs  int

	LogLevel   string
	LogConsole bool
}

// Load reads environment variables and returns a Config.
// A .env file in the working directory is loaded first when present.
// Uses sensible defaults for optional fields.
func Load() *Config {
	_ = godotenv.Load() // Missing .env is the common case in production.

	return &Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "notifyd.db"),

		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		WebhookSecret: getEnv("WEBHOOK_SECRET", "telegram"),
		WebhookBase:   os.Getenv("WEBHOOK_BASE_URL"),

		BroadcastWorkers: getEnvInt("BROADCAST_WORKERS", 8),
		BroadcastRate:    getEnvFloat("BROADCAST_RATE", 25),
		SendTimeoutSecs:  getEnvInt("SEND_TIMEOUT_SECONDS", 10),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogConsole: getEnv("LOG_CONSOLE", "") != "",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
