package state

import (
	"encoding/json"
	"reflect"
	"testing"

	"match-overlay-service/internal/domain"
)

func TestApplyOverrideLeavesUnrelatedFields(t *testing.T) {
	s := New()
	before := s.Snapshot()

	s.ApplyOverride(Delta{HomeColor: String("#00ff00")})

	after := s.Snapshot()
	if after.HomeColor != "#00ff00" {
		t.Fatalf("HomeColor = %q, want #00ff00", after.HomeColor)
	}
	if after.HomeScore != before.HomeScore || after.AwayScore != before.AwayScore {
		t.Fatal("override of homeColor changed score fields")
	}
	if after.HomeName != before.HomeName || after.StatusLabel != before.StatusLabel {
		t.Fatal("override of homeColor changed unrelated fields")
	}
}

func TestApplyPollIsIdempotent(t *testing.T) {
	delta := Delta{
		HomeName:    String("Flamengo"),
		AwayName:    String("Palmeiras"),
		HomeScore:   Score("2"),
		AwayScore:   Score("1"),
		StatusLabel: String(domain.StatusLive),
	}

	s := New()
	s.ApplyPoll(delta)
	once := s.Snapshot()
	s.ApplyPoll(delta)
	twice := s.Snapshot()

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("applying the same poll twice changed state:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestApplyPollNeverTouchesColors(t *testing.T) {
	s := New()
	s.ApplyOverride(Delta{HomeColor: String("#123456"), AwayColor: String("#654321")})

	s.ApplyPoll(Delta{
		HomeColor: String("#ffffff"),
		AwayColor: String("#000000"),
		HomeScore: Score("3"),
	})

	snap := s.Snapshot()
	if snap.HomeColor != "#123456" || snap.AwayColor != "#654321" {
		t.Fatalf("poll overwrote operator colors: %q / %q", snap.HomeColor, snap.AwayColor)
	}
	if snap.HomeScore != "3" {
		t.Fatalf("HomeScore = %q, want 3", snap.HomeScore)
	}
}

func TestApplyPollEmptyDeltaIsNoOp(t *testing.T) {
	s := New()
	notified := 0
	s.OnChange(func(domain.GameState) { notified++ })

	before := s.Snapshot()
	s.ApplyPoll(Delta{})
	after := s.Snapshot()

	if !reflect.DeepEqual(before, after) {
		t.Fatal("empty poll delta mutated state")
	}
	if notified != 0 {
		t.Fatalf("empty delta triggered %d notifications", notified)
	}
}

func TestRecentEventsCappedOnMerge(t *testing.T) {
	events := []domain.MatchEvent{
		{Minute: 88, Kind: domain.EventGoal, Text: "88' Goal by A"},
		{Minute: 75, Kind: domain.EventCard, Text: "75' Yellow card for B"},
		{Minute: 60, Kind: domain.EventGoal, Text: "60' Goal by C"},
		{Minute: 44, Kind: domain.EventGoal, Text: "44' Goal by D"},
		{Minute: 30, Kind: domain.EventCard, Text: "30' Red card for E"},
		{Minute: 12, Kind: domain.EventGoal, Text: "12' Goal by F"},
		{Minute: 3, Kind: domain.EventGoal, Text: "3' Goal by G"},
	}

	s := New()
	s.ApplyPoll(Delta{RecentEvents: &events})

	snap := s.Snapshot()
	if len(snap.RecentEvents) != domain.MaxRecentEvents {
		t.Fatalf("got %d events, want %d", len(snap.RecentEvents), domain.MaxRecentEvents)
	}
	for i := 1; i < len(snap.RecentEvents); i++ {
		if snap.RecentEvents[i].Minute > snap.RecentEvents[i-1].Minute {
			t.Fatalf("events not sorted most-recent-first: %+v", snap.RecentEvents)
		}
	}
	if snap.RecentEvents[len(snap.RecentEvents)-1].Minute != 30 {
		t.Fatalf("truncation dropped the wrong events: %+v", snap.RecentEvents)
	}
}

func TestOnChangeObservesMergeOrder(t *testing.T) {
	s := New()
	var seen []string
	s.OnChange(func(g domain.GameState) { seen = append(seen, g.HomeScore) })

	s.ApplyPoll(Delta{HomeScore: Score("1")})
	s.ApplyOverride(Delta{HomeScore: Score("2")})
	s.ApplyPoll(Delta{HomeScore: Score("3")})

	want := []string{"1", "2", "3"}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("notifications %v, want %v", seen, want)
	}
}

func TestSnapshotDoesNotAliasStoreSlices(t *testing.T) {
	events := []domain.MatchEvent{{Minute: 10, Kind: domain.EventGoal, Text: "10' Goal by X"}}
	s := New()
	s.ApplyPoll(Delta{RecentEvents: &events})

	snap := s.Snapshot()
	snap.RecentEvents[0].Text = "tampered"

	if s.Snapshot().RecentEvents[0].Text != "10' Goal by X" {
		t.Fatal("snapshot aliases the store's event slice")
	}
}

func TestDisplayValueUnmarshal(t *testing.T) {
	var d Delta
	if err := json.Unmarshal([]byte(`{"homeScore":"2","awayScore":1}`), &d); err != nil {
		t.Fatalf("unmarshal returned error: %v", err)
	}
	if d.HomeScore == nil || *d.HomeScore != "2" {
		t.Fatalf("HomeScore = %v, want 2", d.HomeScore)
	}
	if d.AwayScore == nil || *d.AwayScore != "1" {
		t.Fatalf("AwayScore = %v, want 1", d.AwayScore)
	}

	if err := json.Unmarshal([]byte(`{"homeScore":true}`), &d); err == nil {
		t.Fatal("expected error for boolean score")
	}
}
