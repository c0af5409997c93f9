package domain

import "testing"

func TestNewGameStatePlaceholders(t *testing.T) {
	g := NewGameState()
	if g.HomeName != "Home" || g.AwayName != "Away" {
		t.Fatalf("names = %q/%q", g.HomeName, g.AwayName)
	}
	if g.HomeScore != "0" || g.AwayScore != "0" {
		t.Fatalf("scores = %q/%q", g.HomeScore, g.AwayScore)
	}
	if g.StatusLabel != StatusScheduled {
		t.Fatalf("status = %q, want %q", g.StatusLabel, StatusScheduled)
	}
	if g.TrackedMatchID != "" {
		t.Fatalf("tracked id = %q, want empty", g.TrackedMatchID)
	}
}

func TestCloneDoesNotAliasSlices(t *testing.T) {
	g := GameState{
		HomeLineup:   []LineupPlayer{{Number: "9", Name: "Pedro"}},
		RecentEvents: []MatchEvent{{Minute: 12, Kind: EventGoal, Text: "12' Goal by Pedro"}},
	}

	clone := g.Clone()
	clone.HomeLineup[0].Name = "changed"
	clone.RecentEvents[0].Minute = 99

	if g.HomeLineup[0].Name != "Pedro" {
		t.Fatal("clone aliases HomeLineup")
	}
	if g.RecentEvents[0].Minute != 12 {
		t.Fatal("clone aliases RecentEvents")
	}
}

func TestCloneKeepsNilSlicesNil(t *testing.T) {
	clone := GameState{}.Clone()
	if clone.HomeLineup != nil || clone.AwayLineup != nil || clone.RecentEvents != nil {
		t.Fatalf("clone materialized nil slices: %+v", clone)
	}
}
