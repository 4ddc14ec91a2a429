package config

import (
	"fmt"
	"os"
)

// Config holds the configuration for the application.
type Config struct {
	// DatabasePath is where the SQLite file lives for signed-in accounts.
	DatabasePath string
	// DataDir is the base directory for guest-mode JSON collections.
	DataDir string

	// GeminiAPIKey is optional: without it the app serves static recipes
	// and skips photo grading.
	GeminiAPIKey string

	JWTSecret string

	// Telegram Config (required for the bot binary)
	TelegramBotToken   string
	TelegramWebhookURL string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("CRAVECARE_DB_PATH")
	if dbPath == "" {
		dbPath = "data/cravecare.db"
	}

	dataDir := os.Getenv("CRAVECARE_DATA_DIR")
	if dataDir == "" {
		dataDir = "data/local"
	}

	jwtSecret := os.Getenv("CRAVECARE_JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("CRAVECARE_JWT_SECRET environment variable not set")
	}

	return &Config{
		DatabasePath:       dbPath,
		DataDir:            dataDir,
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		JWTSecret:          jwtSecret,
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}, nil
}

// RequireTelegram validates the fields the bot binary cannot start without.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	return nil
}
