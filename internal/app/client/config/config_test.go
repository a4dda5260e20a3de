package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost:8080", cfg.ServerAddress)
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.Equal(t, 50, cfg.SyncThreshold)
	assert.Equal(t, time.Second, cfg.SyncDebounce)
	assert.Equal(t, 1500*time.Millisecond, cfg.InitPushDelay)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10000, cfg.DailyGoal)
	assert.Equal(t, 10, cfg.HistoryPageSize)
	assert.Equal(t, filepath.Join(dir, "credentials.json"), cfg.CredentialPath)
	assert.Equal(t, filepath.Join(dir, "gfit.db"), cfg.DataPath)
	assert.False(t, cfg.SensorEnabled())
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL())
	assert.True(t, cfg.IsLocal())
}

func TestLoad_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SERVER_ADDRESS", "api.gfit.example")
	t.Setenv("ENABLE_TLS", "true")
	t.Setenv("SYNC_THRESHOLD", "10")
	t.Setenv("MQTT_BROKER", "tcp://localhost:1883")

	cfg, err := load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "https://api.gfit.example", cfg.BaseURL())
	assert.Equal(t, 10, cfg.SyncThreshold)
	assert.True(t, cfg.SensorEnabled())
	assert.Equal(t, "gfit/steps/+", cfg.MQTT.Topic)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "zero interval", key: "SYNC_INTERVAL_SECONDS", val: "0"},
		{name: "negative threshold", key: "SYNC_THRESHOLD", val: "-1"},
		{name: "zero goal", key: "DAILY_GOAL", val: "0"},
		{name: "zero page size", key: "HISTORY_PAGE_SIZE", val: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			t.Setenv("CONFIG_DIR", t.TempDir())
			t.Setenv(tt.key, tt.val)

			_, err := load()
			assert.Error(t, err)
		})
	}
}
