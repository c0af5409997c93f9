package domain

import "time"

// Display vocabulary pushed to overlays. Providers use wildly different status
// labels; anything we cannot classify passes through uppercased.
const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusHalftime  = "HALFTIME"
	StatusEnded     = "ENDED"
)

// Event kinds rendered in the recent-events ticker.
const (
	EventGoal = "goal"
	EventCard = "card"
)

// MaxRecentEvents bounds the ticker shown on the overlay.
const MaxRecentEvents = 5

// LineupPlayer is one entry of a side's starting lineup.
type LineupPlayer struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

// MatchEvent is one row of the recent-events ticker.
type MatchEvent struct {
	Minute int    `json:"minute"`
	Kind   string `json:"kind"`
	Text   string `json:"text"`
}

// MatchSummary is one row of a directory search result. It is rebuilt on every
// directory fetch and never persisted.
type MatchSummary struct {
	ID          string    `json:"id"`
	HomeName    string    `json:"homeName"`
	AwayName    string    `json:"awayName"`
	Competition string    `json:"competition"`
	KickoffTime time.Time `json:"kickoffTime"`
}

// GameState is the single shared record describing what viewers currently see.
// Exactly one instance exists per process; all mutation flows through the state
// store and every connected viewer observes the same values.
type GameState struct {
	HomeName       string         `json:"homeName"`
	AwayName       string         `json:"awayName"`
	HomeScore      string         `json:"homeScore"`
	AwayScore      string         `json:"awayScore"`
	HomeCrestURL   string         `json:"homeCrestUrl"`
	AwayCrestURL   string         `json:"awayCrestUrl"`
	HomeColor      string         `json:"homeColor"`
	AwayColor      string         `json:"awayColor"`
	StatusLabel    string         `json:"statusLabel"`
	GameTime       string         `json:"gameTime"`
	TrackedMatchID string         `json:"trackedMatchId"`
	HomeLineup     []LineupPlayer `json:"homeLineup"`
	AwayLineup     []LineupPlayer `json:"awayLineup"`
	RecentEvents   []MatchEvent   `json:"recentEvents"`
}

// NewGameState returns the placeholder state shown before a match is tracked.
func NewGameState() GameState {
	return GameState{
		HomeName:    "Home",
		AwayName:    "Away",
		HomeScore:   "0",
		AwayScore:   "0",
		HomeColor:   "#ff0000",
		AwayColor:   "#0000ff",
		StatusLabel: StatusScheduled,
		GameTime:    "00:00",
	}
}

// Clone returns a deep copy so snapshots handed to viewers cannot alias the
// store's slices.
func (g GameState) Clone() GameState {
	out := g
	if g.HomeLineup != nil {
		out.HomeLineup = append([]LineupPlayer(nil), g.HomeLineup...)
	}
	if g.AwayLineup != nil {
		out.AwayLineup = append([]LineupPlayer(nil), g.AwayLineup...)
	}
	if g.RecentEvents != nil {
		out.RecentEvents = append([]MatchEvent(nil), g.RecentEvents...)
	}
	return out
}
