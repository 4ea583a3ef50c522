package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "complaint-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.True(t, cfg.Escalation.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Escalation.Interval())
	assert.Equal(t, time.Minute, cfg.Stats.CacheTTL())
	assert.Equal(t, 256, cfg.Mail.QueueSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("ESCALATION_ENABLED", "false")
	t.Setenv("ESCALATION_INTERVAL_MINUTES", "5")
	t.Setenv("STATS_CACHE_TTL_SECONDS", "120")
	t.Setenv("AUTH_BCRYPT_COST", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9999", cfg.App.Addr())
	assert.False(t, cfg.Escalation.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Escalation.Interval())
	assert.Equal(t, 2*time.Minute, cfg.Stats.CacheTTL())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	_, err := Load()
	require.Error(t, err)
}
