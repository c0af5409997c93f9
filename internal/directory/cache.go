package directory

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"match-overlay-service/internal/domain"
	"match-overlay-service/internal/extract"
	"match-overlay-service/internal/timeutil"
	"match-overlay-service/internal/upstream"
)

// Cache owns the most recently fetched upstream match directory. Listings
// always hit the network (operators expect fresh results); poll ticks reuse the
// cache unless it is empty or a forced refresh is demanded.
type Cache struct {
	provider   upstream.MatchProvider
	logger     *slog.Logger
	denylist   []string
	hourOffset int
	now        func() time.Time

	mu        sync.Mutex
	records   []upstream.RawMatch
	fetchedAt time.Time
}

// Config carries directory policy knobs.
type Config struct {
	// SportDenylist excludes out-of-scope categories (combat sports, esports)
	// by case-insensitive substring match.
	SportDenylist []string
	// KickoffHourOffset compensates for providers whose timestamps are not
	// truly UTC.
	KickoffHourOffset int
}

// New constructs an empty Cache.
func New(provider upstream.MatchProvider, cfg Config, logger *slog.Logger) *Cache {
	return &Cache{
		provider:   provider,
		logger:     logger,
		denylist:   cfg.SportDenylist,
		hourOffset: cfg.KickoffHourOffset,
		now:        time.Now,
	}
}

// Refresh fetches the full upstream list, filters it, and replaces the cached
// directory. On upstream failure the previous cache is kept and an empty list
// is returned with the error.
func (c *Cache) Refresh(ctx context.Context) ([]upstream.RawMatch, error) {
	raw, err := c.provider.FetchMatches(ctx)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("directory refresh failed", "error", err)
		}
		return nil, err
	}

	filtered := c.filter(raw)

	c.mu.Lock()
	c.records = filtered
	c.fetchedAt = c.now()
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info("directory refreshed", "fetched", len(raw), "retained", len(filtered))
	}
	return filtered, nil
}

// Cached returns the current cached directory without fetching.
func (c *Cache) Cached() []upstream.RawMatch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records
}

// Lookup searches the cached directory for a record matching either of the
// record's id fields as case-normalized strings.
func (c *Cache) Lookup(id string) (upstream.RawMatch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range c.records {
		if extract.HasID(rec, id) {
			return rec, true
		}
	}
	return nil, false
}

// Resolve returns the raw record for id. The cache is reused unless it is
// empty or force is set, in which case a fresh fetch happens first.
func (c *Cache) Resolve(ctx context.Context, id string, force bool) (upstream.RawMatch, bool, error) {
	c.mu.Lock()
	empty := len(c.records) == 0
	c.mu.Unlock()

	if force || empty {
		if _, err := c.Refresh(ctx); err != nil {
			return nil, false, err
		}
	}

	rec, ok := c.Lookup(id)
	return rec, ok, nil
}

// Search performs a fresh directory fetch and maps the result for an operator
// listing. A transient upstream failure yields an empty list, not an error: a
// search must never crash the operator console.
func (c *Cache) Search(ctx context.Context) ([]domain.MatchSummary, error) {
	records, err := c.Refresh(ctx)
	if err != nil {
		return []domain.MatchSummary{}, err
	}
	return c.Summaries(records), nil
}

// Summaries maps raw records onto directory-list items.
func (c *Cache) Summaries(records []upstream.RawMatch) []domain.MatchSummary {
	out := make([]domain.MatchSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, extract.Summary(rec, c.hourOffset, c.now))
	}
	return out
}

// filter applies the sport denylist and the today-date prefix check. Records
// without any date string are kept; the date filter only drops entries that
// positively belong to another day.
func (c *Cache) filter(records []upstream.RawMatch) []upstream.RawMatch {
	today := timeutil.FormatDate(c.now().UTC())

	kept := make([]upstream.RawMatch, 0, len(records))
	for _, rec := range records {
		if extract.SportDenied(rec, c.denylist) {
			continue
		}
		if raw := extract.RawDate(rec); raw != "" && !strings.HasPrefix(raw, today) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}
