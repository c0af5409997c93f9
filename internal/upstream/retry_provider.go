package upstream

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"match-overlay-service/internal/metrics"
)

const (
	defaultRetryAttempts   = 3
	defaultInitialInterval = 200 * time.Millisecond
)

// retryingProvider wraps a MatchProvider with exponential backoff retries.
type retryingProvider struct {
	inner       MatchProvider
	logger      *slog.Logger
	metrics     *metrics.Recorder
	name        string
	maxAttempts int
	initial     time.Duration
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts or
// initialInterval are <= 0, defaults are used.
func NewRetryingProvider(inner MatchProvider, logger *slog.Logger, recorder *metrics.Recorder, name string, maxAttempts int, initialInterval time.Duration) MatchProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initialInterval <= 0 {
		initialInterval = defaultInitialInterval
	}
	return &retryingProvider{
		inner:       inner,
		logger:      logger,
		metrics:     recorder,
		name:        name,
		maxAttempts: maxAttempts,
		initial:     initialInterval,
	}
}

func (r *retryingProvider) FetchMatches(ctx context.Context) ([]RawMatch, error) {
	var matches []RawMatch
	attempt := 0

	operation := func() error {
		attempt++
		start := time.Now()
		out, err := r.inner.FetchMatches(ctx)
		if r.metrics != nil {
			r.metrics.RecordProviderAttempt(r.name, time.Since(start), err)
		}
		if err != nil {
			if rl, ok := AsRateLimitError(err); ok && r.metrics != nil {
				r.metrics.RecordRateLimit(r.name, rl.RetryAfter)
			}
			r.logWarn("provider fetch retry", "attempt", attempt, "max_attempts", r.maxAttempts, "err", err)
			return err
		}
		matches = out
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = r.initial
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(r.maxAttempts-1)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		r.logWarn("provider fetch failed", "attempts", attempt, "err", err)
		return nil, err
	}
	return matches, nil
}

// Close forwards to the wrapped provider so rate-limiter tickers stop cleanly.
func (r *retryingProvider) Close() {
	if closer, ok := r.inner.(interface{ Close() }); ok {
		closer.Close()
	}
}

func (r *retryingProvider) logWarn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
