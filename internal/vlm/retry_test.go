package vlm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBackoff_LiteralRanges(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, InitialBackoff: 500 * time.Millisecond}

	d1 := calculateBackoff(1, cfg, 0)
	assert.GreaterOrEqual(t, d1, 450*time.Millisecond)
	assert.LessOrEqual(t, d1, 550*time.Millisecond)

	d2 := calculateBackoff(2, cfg, 0)
	assert.GreaterOrEqual(t, d2, 900*time.Millisecond)
	assert.LessOrEqual(t, d2, 1100*time.Millisecond)

	d3 := calculateBackoff(3, cfg, 0)
	assert.GreaterOrEqual(t, d3, 1800*time.Millisecond)
	assert.LessOrEqual(t, d3, 2200*time.Millisecond)
}

func TestCalculateBackoff_CappedAt30s(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 10, InitialBackoff: 500 * time.Millisecond}
	d := calculateBackoff(10, cfg, 0)
	assert.LessOrEqual(t, d, 30*time.Second)
}

func TestCalculateBackoff_RetryAfterOverrides(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, InitialBackoff: 500 * time.Millisecond}
	d := calculateBackoff(1, cfg, 5*time.Second)
	assert.Equal(t, 5*time.Second, d)

	capped := calculateBackoff(1, cfg, 60*time.Second)
	assert.Equal(t, 30*time.Second, capped)
}

func TestShouldRetry(t *testing.T) {
	assert.True(t, shouldRetry(429, false, false))
	assert.True(t, shouldRetry(500, false, false))
	assert.True(t, shouldRetry(503, false, false))
	assert.True(t, shouldRetry(408, false, false))
	assert.True(t, shouldRetry(0, true, false))
	assert.True(t, shouldRetry(0, false, true))
	assert.False(t, shouldRetry(401, false, false))
	assert.False(t, shouldRetry(403, false, false))
	assert.False(t, shouldRetry(400, false, false))
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, isAuthError(401))
	assert.True(t, isAuthError(403))
	assert.False(t, isAuthError(429))
}
