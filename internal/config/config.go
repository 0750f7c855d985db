package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Database
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Discord
	DiscordToken       string
	DiscordAppID       string
	ModChannelID       string // rank up/down announcements
	LogChannelID       string // audit trail, falls back to ModChannelID
	FeedChannelID      string // RuneLite webhook feed, empty disables ingestion
	ForceCommandUpdate bool

	// Oracles
	OracleRefreshInterval time.Duration
	RarityDataPath        string
	RaritySchemaPath      string

	// HTTP (health + metrics)
	Port int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBName:             getEnv("DB_NAME", "lootbot"),
		DiscordToken:       getEnv("DISCORD_TOKEN", ""),
		DiscordAppID:       getEnv("DISCORD_APP_ID", ""),
		ModChannelID:       getEnv("MOD_CHANNEL_ID", ""),
		LogChannelID:       getEnv("BOT_LOG_CHANNEL_ID", ""),
		FeedChannelID:      getEnv("RUNELITE_CHANNEL_ID", ""),
		ForceCommandUpdate: getEnv("DISCORD_FORCE_COMMAND_UPDATE", "") == "true",
		RarityDataPath:     getEnv("RARITY_DATA_PATH", "configs/collection_rates.json"),
		RaritySchemaPath:   getEnv("RARITY_SCHEMA_PATH", "configs/schemas/collection_rates.schema.json"),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	refreshStr := getEnv("ORACLE_REFRESH_INTERVAL", "300s")
	refresh, err := time.ParseDuration(refreshStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ORACLE_REFRESH_INTERVAL value: %w", err)
	}
	cfg.OracleRefreshInterval = refresh

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN environment variable must be set")
	}
	if cfg.DiscordAppID == "" {
		return nil, fmt.Errorf("DISCORD_APP_ID environment variable must be set")
	}
	if cfg.ModChannelID == "" {
		return nil, fmt.Errorf("MOD_CHANNEL_ID environment variable must be set")
	}

	// Audit log falls back to the mod channel when not configured separately
	if cfg.LogChannelID == "" {
		cfg.LogChannelID = cfg.ModChannelID
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
