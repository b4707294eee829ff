package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "ANNOTATE_STORE", "ANNOTATE_SYNC_TIMEOUT", "OTEL_ENABLED", "PENDING_TTL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "file", cfg.Client.StoreBackend)
	assert.Equal(t, 15*time.Second, cfg.Client.SyncTimeout)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Zero(t, cfg.App.PendingTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("GO_ENV", "production")
	t.Setenv("ANNOTATE_STORE", "bolt")
	t.Setenv("ANNOTATE_SYNC_TIMEOUT", "3s")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("PENDING_TTL", "24h")
	t.Setenv("ANNOTATE_USER", "alice")

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, "bolt", cfg.Client.StoreBackend)
	assert.Equal(t, 3*time.Second, cfg.Client.SyncTimeout)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.App.PendingTTL)
	assert.Equal(t, "alice", cfg.Client.UserName)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("ANNOTATE_SYNC_TIMEOUT", "soon")
	t.Setenv("OTEL_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 15*time.Second, cfg.Client.SyncTimeout)
	assert.False(t, cfg.Tracing.Enabled)
}
