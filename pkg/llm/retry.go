package llm

import (
	"context"
	"time"

	"github.com/ppiankov/tripletcheck/internal/util"
)

// retrySleepFunc is the sleep function used between retries (injectable for tests)
var retrySleepFunc = time.Sleep

const retryBaseDelay = 500 * time.Millisecond

// retryProvider wraps a Provider and retries transient failures with
// exponential backoff. Non-retryable failures (auth, unusable responses)
// surface immediately.
type retryProvider struct {
	inner       Provider
	maxAttempts int
}

// WithRetry wraps p so each Complete call gets up to maxAttempts tries.
// maxAttempts below 2 returns p unchanged.
func WithRetry(p Provider, maxAttempts int) Provider {
	if p == nil || maxAttempts < 2 {
		return p
	}
	return &retryProvider{inner: p, maxAttempts: maxAttempts}
}

func (r *retryProvider) Name() string {
	return r.inner.Name()
}

func (r *retryProvider) IsAvailable(ctx context.Context) bool {
	return r.inner.IsAvailable(ctx)
}

func (r *retryProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, classifyTransport(r.inner.Name(), ctx.Err())
			default:
			}
			retrySleepFunc(util.CalculateBackoff(retryBaseDelay, attempt))
		}

		resp, err := r.inner.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}
