package upstream

import (
	"context"
	"log/slog"
	"time"
)

// rateLimitedProvider wraps a MatchProvider and enforces a minimum interval
// between calls. Free upstream tiers quota aggressively; calls block until the
// interval elapses rather than burning the quota.
type rateLimitedProvider struct {
	next     MatchProvider
	interval time.Duration
	ticker   *time.Ticker
	logger   *slog.Logger
}

// NewRateLimitedProvider returns a MatchProvider that limits calls to the given
// interval.
func NewRateLimitedProvider(next MatchProvider, interval time.Duration, logger *slog.Logger) MatchProvider {
	if interval <= 0 {
		interval = time.Second
	}
	return &rateLimitedProvider{
		next:     next,
		interval: interval,
		ticker:   time.NewTicker(interval),
		logger:   logger,
	}
}

func (p *rateLimitedProvider) FetchMatches(ctx context.Context) ([]RawMatch, error) {
	if p == nil || p.next == nil {
		return nil, ErrProviderUnavailable
	}
	select {
	case <-ctx.Done():
		if p.logger != nil {
			p.logger.Warn("rate-limited fetch canceled", slog.String("provider", "rate-limited"))
		}
		return nil, ctx.Err()
	case <-p.ticker.C:
	}
	return p.next.FetchMatches(ctx)
}

// Close stops the pacing ticker. Safe to call once during shutdown.
func (p *rateLimitedProvider) Close() {
	if p != nil && p.ticker != nil {
		p.ticker.Stop()
	}
}
