package security

import (
	"testing"
	"time"

	"github.com/sharewatch/sharewatch/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		rl := NewRateLimiter(config.RateLimitConfig{Enabled: false})
		for i := 0; i < 100; i++ {
			assert.True(t, rl.Allow("10.0.0.1"))
		}
	})

	t.Run("BurstExhaustion", func(t *testing.T) {
		rl := NewRateLimiter(config.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 1,
			Burst:             3,
		})

		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow("10.0.0.1"), "request %d within burst", i)
		}
		assert.False(t, rl.Allow("10.0.0.1"), "request beyond burst")
	})

	t.Run("ClientsAreIndependent", func(t *testing.T) {
		rl := NewRateLimiter(config.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 1,
			Burst:             1,
		})

		assert.True(t, rl.Allow("10.0.0.1"))
		assert.False(t, rl.Allow("10.0.0.1"))
		assert.True(t, rl.Allow("10.0.0.2"))
	})

	t.Run("CleanupStale", func(t *testing.T) {
		rl := NewRateLimiter(config.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 1,
			Burst:             1,
		})

		rl.Allow("10.0.0.1")
		rl.Allow("10.0.0.2")

		rl.mu.Lock()
		rl.clients["10.0.0.1"].lastSeen = time.Now().Add(-2 * time.Hour)
		rl.mu.Unlock()

		rl.CleanupStale(time.Hour)

		rl.mu.Lock()
		defer rl.mu.Unlock()
		assert.NotContains(t, rl.clients, "10.0.0.1")
		assert.Contains(t, rl.clients, "10.0.0.2")
	})
}
