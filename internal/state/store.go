package state

import (
	"sync"

	"match-overlay-service/internal/domain"
)

// Store owns the single shared GameState. All mutation flows through its merge
// methods so the broadcast after a merge always observes a consistent record.
type Store struct {
	mu       sync.Mutex
	state    domain.GameState
	onChange func(domain.GameState)
}

// New constructs a Store seeded with placeholder state.
func New() *Store {
	return &Store{state: domain.NewGameState()}
}

// OnChange registers the broadcast callback invoked after every merge. The
// callback runs under the store lock so notifications arrive in merge order;
// it must not block.
func (s *Store) OnChange(fn func(domain.GameState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Snapshot returns a deep copy of the current state for seeding a new viewer.
func (s *Store) Snapshot() domain.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// ApplyOverride shallow-merges operator-supplied fields, last-writer-wins, and
// notifies the broadcast callback.
func (s *Store) ApplyOverride(d Delta) {
	s.apply(d)
}

// ApplyPoll merges a poll-derived delta. Display colors are operator-only and
// are stripped here so no provider shape can ever overwrite them.
func (s *Store) ApplyPoll(d Delta) {
	d.HomeColor = nil
	d.AwayColor = nil
	s.apply(d)
}

func (s *Store) apply(d Delta) {
	if d.IsZero() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if d.HomeName != nil {
		s.state.HomeName = *d.HomeName
	}
	if d.AwayName != nil {
		s.state.AwayName = *d.AwayName
	}
	if d.HomeScore != nil {
		s.state.HomeScore = string(*d.HomeScore)
	}
	if d.AwayScore != nil {
		s.state.AwayScore = string(*d.AwayScore)
	}
	if d.HomeCrestURL != nil {
		s.state.HomeCrestURL = *d.HomeCrestURL
	}
	if d.AwayCrestURL != nil {
		s.state.AwayCrestURL = *d.AwayCrestURL
	}
	if d.HomeColor != nil {
		s.state.HomeColor = *d.HomeColor
	}
	if d.AwayColor != nil {
		s.state.AwayColor = *d.AwayColor
	}
	if d.StatusLabel != nil {
		s.state.StatusLabel = *d.StatusLabel
	}
	if d.GameTime != nil {
		s.state.GameTime = *d.GameTime
	}
	if d.TrackedMatchID != nil {
		s.state.TrackedMatchID = *d.TrackedMatchID
	}
	if d.HomeLineup != nil {
		s.state.HomeLineup = append([]domain.LineupPlayer(nil), (*d.HomeLineup)...)
	}
	if d.AwayLineup != nil {
		s.state.AwayLineup = append([]domain.LineupPlayer(nil), (*d.AwayLineup)...)
	}
	if d.RecentEvents != nil {
		events := append([]domain.MatchEvent(nil), (*d.RecentEvents)...)
		if len(events) > domain.MaxRecentEvents {
			events = events[:domain.MaxRecentEvents]
		}
		s.state.RecentEvents = events
	}

	if s.onChange != nil {
		s.onChange(s.state.Clone())
	}
}
