package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.ProvisionTokenTTL)
	assert.Equal(t, 30*time.Second, cfg.ClaimRetryWindow)
	assert.Equal(t, 2*time.Minute, cfg.DeviceOnlineThreshold)
	assert.Equal(t, 24*time.Hour, cfg.DeviceStaleThreshold)
	assert.True(t, cfg.ClaimRateLimitEnabled)
	assert.Equal(t, "leadgrid", cfg.MetricsNamespace)
	assert.Empty(t, cfg.SMTPHost)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("PROVISION_TOKEN_TTL_SECONDS", "60")
	t.Setenv("DEVICE_ONLINE_THRESHOLD_SECONDS", "30")
	t.Setenv("CLAIM_RATE_LIMIT_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, time.Minute, cfg.ProvisionTokenTTL)
	assert.Equal(t, 30*time.Second, cfg.DeviceOnlineThreshold)
	assert.False(t, cfg.ClaimRateLimitEnabled)
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
