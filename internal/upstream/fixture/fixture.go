package fixture

import (
	"context"
	"time"

	"match-overlay-service/internal/timeutil"
	"match-overlay-service/internal/upstream"
)

// Provider returns a static set of raw matches useful for local development
// without an upstream credential. Records deliberately mix the field shapes the
// extractor must cope with.
type Provider struct {
	now func() time.Time
}

// New creates a fixture provider with a real time source.
func New() *Provider {
	return &Provider{now: time.Now}
}

// FetchMatches returns a deterministic set of example raw records dated today.
func (p *Provider) FetchMatches(ctx context.Context) ([]upstream.RawMatch, error) {
	_ = ctx
	today := timeutil.FormatDate(p.now().UTC())

	return []upstream.RawMatch{
		{
			"id":         float64(1001),
			"sport":      "Soccer",
			"orig_teams": "Flamengo vs Palmeiras",
			"when":       today + ", 07:00 PM",
			"score":      "2 - 1",
			"status":     "live",
			"timer":      "63",
			"home_badge": "https://img.example/flamengo.png",
			"away_badge": "https://img.example/palmeiras.png",
			"goals": []any{
				map[string]any{"minute": float64(12), "scorer": "Pedro"},
				map[string]any{"minute": float64(58), "scorer": "Rony"},
			},
		},
		{
			"universal_id": "uni-2002",
			"id":           float64(2002),
			"league":       "Premier League",
			"game":         "Arsenal vs Chelsea, Matchday 21",
			"when":         today + ", 04:30 PM",
			"scores": map[string]any{
				"ft": map[string]any{"home": float64(0), "away": float64(0)},
			},
			"status": "ns",
		},
		{
			"id":        float64(3003),
			"sport":     "Basketball",
			"home_team": "Lakers",
			"away_team": "Celtics",
			"when":      today + " 22:00",
			"status":    "scheduled",
		},
	}, nil
}
