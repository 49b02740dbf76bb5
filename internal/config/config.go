// Package config loads runtime settings from the environment and the
// optional cities file.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the server.
type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	// SQLitePath overrides the sqlite store's default location when
	// non-empty.
	SQLitePath string

	TelegramToken string
	RescueChatID  int64

	MonitorSpec string
	CitiesFile  string
}

// Load reads .env if present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("GO_ENV", "development"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SQLitePath:    getEnv("SQLITE_PATH", ""),
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		RescueChatID:  getEnvInt64("RESCUE_CHAT_ID", 0),
		MonitorSpec:   getEnv("MONITOR_CRON", "@every 30s"),
		CitiesFile:    getEnv("CITIES_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Invalid %s value %q, using default", key, value)
		return defaultValue
	}
	return n
}
