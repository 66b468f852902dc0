package vlm

import (
	"math"
	"math/rand"
	"time"
)

const maxBackoff = 30 * time.Second

// RetryConfig holds backoff parameters for a single dispatch.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
}

// calculateBackoff computes the delay before attempt k (k = 1..MaxRetries),
// as base * 2^(k-1) capped at 30s, perturbed by +/-10% uniform jitter.
// retryAfter, when > 0, overrides the computed delay (still capped).
func calculateBackoff(k int, cfg RetryConfig, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		if retryAfter > maxBackoff {
			return maxBackoff
		}
		return retryAfter
	}
	base := float64(cfg.InitialBackoff) * math.Pow(2, float64(k-1))
	if base > float64(maxBackoff) {
		base = float64(maxBackoff)
	}
	jitter := base * 0.1
	delta := (rand.Float64()*2 - 1) * jitter
	d := time.Duration(base + delta)
	if d > maxBackoff {
		d = maxBackoff
	}
	if d < 0 {
		d = 0
	}
	return d
}

// shouldRetry classifies an attempt outcome. contextOverflow and
// rateLimited are surfaced separately so the dispatcher can apply the
// downgrade-and-retry-once policy and the RateLimitExceeded page error
// respectively.
func shouldRetry(statusCode int, transportErr bool, timedOut bool) bool {
	if transportErr || timedOut {
		return true
	}
	switch statusCode {
	case 408, 429:
		return true
	}
	if statusCode >= 500 && statusCode < 600 {
		return true
	}
	return false
}

func isAuthError(statusCode int) bool {
	return statusCode == 401 || statusCode == 403
}
