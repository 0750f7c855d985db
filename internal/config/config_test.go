package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("DISCORD_APP_ID", "12345")
	t.Setenv("MOD_CHANNEL_ID", "67890")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "lootbot", cfg.DBName)
	assert.Equal(t, 300*time.Second, cfg.OracleRefreshInterval)
	assert.Equal(t, "configs/collection_rates.json", cfg.RarityDataPath)
	// Audit channel falls back to the mod channel
	assert.Equal(t, "67890", cfg.LogChannelID)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DISCORD_APP_ID", "12345")
	t.Setenv("MOD_CHANNEL_ID", "67890")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")
}

func TestLoadInvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestLoadInvalidRefreshInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ORACLE_REFRESH_INTERVAL", "five minutes")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORACLE_REFRESH_INTERVAL")
}

func TestLoadSeparateLogChannel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOT_LOG_CHANNEL_ID", "11111")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "11111", cfg.LogChannelID)
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{
		DBUser:     "u",
		DBPassword: "p",
		DBHost:     "db",
		DBPort:     "5433",
		DBName:     "loot",
	}
	assert.Equal(t, "postgres://u:p@db:5433/loot?sslmode=disable", cfg.GetDBConnString())
}
