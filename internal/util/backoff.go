package util

import (
	"math/rand"
	"time"
)

// CalculateBackoff returns exponential backoff with jitter for retry attempt N.
// The base delay doubles each attempt, capped at 30 seconds, with random
// jitter of up to 25% in either direction so concurrent retries spread out.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
