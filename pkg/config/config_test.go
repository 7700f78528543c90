package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BROADCAST_INTERVAL", "")
	t.Setenv("INBOX_BATCH_SIZE", "")

	cfg := Load()

	assert.Equal(t, 2*time.Minute, cfg.BroadcastInterval)
	assert.Equal(t, 100, cfg.InboxBatchSize)
	assert.Equal(t, 20, cfg.ContentPoolSize)
	assert.Equal(t, 10, cfg.ContentFallbackSize)
	assert.InDelta(t, 4.0, cfg.ContentMinRating, 0.0001)
	assert.True(t, cfg.BroadcastEnabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BROADCAST_INTERVAL", "30s")
	t.Setenv("BROADCAST_ENABLED", "false")
	t.Setenv("DISPATCH_CONCURRENCY", "4")
	t.Setenv("INBOX_BATCH_SIZE", "25")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.BroadcastInterval)
	assert.False(t, cfg.BroadcastEnabled)
	assert.Equal(t, 4, cfg.DispatchConcurrency)
	assert.Equal(t, 25, cfg.InboxBatchSize)
}

func TestNormalizeFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("BROADCAST_INTERVAL", "not-a-duration")
	t.Setenv("INBOX_BATCH_SIZE", "-5")
	t.Setenv("PUSH_TIMEOUT", "0s")

	cfg := Load()

	assert.Equal(t, defaultBroadcastInterval, cfg.BroadcastInterval)
	assert.Equal(t, defaultInboxBatchSize, cfg.InboxBatchSize)
	assert.Equal(t, defaultPushTimeout, cfg.PushTimeout)
}
