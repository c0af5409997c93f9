package state

import (
	"encoding/json"
	"fmt"

	"match-overlay-service/internal/domain"
)

// DisplayValue is a score shown on the overlay. Providers disagree on whether
// scores are strings or numbers, so it accepts both on unmarshal and is never
// used for arithmetic.
type DisplayValue string

func (v *DisplayValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = DisplayValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("display value must be a string or number: %w", err)
	}
	*v = DisplayValue(n.String())
	return nil
}

// Delta is a partial update to the game state. Nil fields are left untouched by
// a merge; non-nil collection fields replace the whole collection.
type Delta struct {
	HomeName       *string                `json:"homeName,omitempty"`
	AwayName       *string                `json:"awayName,omitempty"`
	HomeScore      *DisplayValue          `json:"homeScore,omitempty"`
	AwayScore      *DisplayValue          `json:"awayScore,omitempty"`
	HomeCrestURL   *string                `json:"homeCrestUrl,omitempty"`
	AwayCrestURL   *string                `json:"awayCrestUrl,omitempty"`
	HomeColor      *string                `json:"homeColor,omitempty"`
	AwayColor      *string                `json:"awayColor,omitempty"`
	StatusLabel    *string                `json:"statusLabel,omitempty"`
	GameTime       *string                `json:"gameTime,omitempty"`
	TrackedMatchID *string                `json:"trackedMatchId,omitempty"`
	HomeLineup     *[]domain.LineupPlayer `json:"homeLineup,omitempty"`
	AwayLineup     *[]domain.LineupPlayer `json:"awayLineup,omitempty"`
	RecentEvents   *[]domain.MatchEvent   `json:"recentEvents,omitempty"`
}

// IsZero reports whether the delta carries no fields.
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// String pins a string field in a Delta literal.
func String(s string) *string { return &s }

// Score pins a score field in a Delta literal.
func Score(s string) *DisplayValue {
	v := DisplayValue(s)
	return &v
}
