package server

import (
	"log/slog"

	"match-overlay-service/internal/config"
	"match-overlay-service/internal/metrics"
	"match-overlay-service/internal/upstream"
	"match-overlay-service/internal/upstream/fixture"
	"match-overlay-service/internal/upstream/sportsfeed"
)

// providerFactory assembles the provider with shared wrappers (rate limit + retry).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) upstream.MatchProvider {
	base := selectProvider(cfg, f.logger)
	if _, isFixture := base.(*fixture.Provider); isFixture {
		// No quota to respect and no network to retry against.
		return base
	}
	limited := upstream.NewRateLimitedProvider(base, providerMinInterval, f.logger)
	return upstream.NewRetryingProvider(limited, f.logger, f.metrics, cfg.Provider, 0, 0)
}

func selectProvider(cfg config.Config, logger *slog.Logger) upstream.MatchProvider {
	switch cfg.Provider {
	case "fixture", "":
		return fixture.New()
	case "sportsfeed":
		return sportsfeed.NewClient(sportsfeed.Config{
			BaseURL: cfg.Sportsfeed.BaseURL,
			APIKey:  cfg.Sportsfeed.APIKey,
		})
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New()
	}
}
