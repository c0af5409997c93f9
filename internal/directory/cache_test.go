package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"match-overlay-service/internal/testutil"
	"match-overlay-service/internal/upstream"
)

func fixedNow() time.Time {
	return time.Date(2026, 1, 30, 12, 0, 0, 0, time.UTC)
}

func newTestCache(provider upstream.MatchProvider, denylist ...string) *Cache {
	c := New(provider, Config{SportDenylist: denylist}, nil)
	c.now = fixedNow
	return c
}

func TestRefreshFiltersSportAndDate(t *testing.T) {
	provider := &testutil.StubProvider{Matches: []upstream.RawMatch{
		{"id": float64(1), "sport": "Soccer", "orig_teams": "Flamengo vs Palmeiras", "when": "2026-01-30, 07:00 PM"},
		{"id": float64(2), "sport": "UFC 300", "orig_teams": "X vs Y", "when": "2026-01-30, 08:00 PM"},
		{"id": float64(3), "sport": "Soccer", "orig_teams": "A vs B", "when": "2026-01-31, 02:00 PM"},
		{"id": float64(4), "sport": "Soccer", "orig_teams": "C vs D"},
	}}

	c := newTestCache(provider, "ufc")
	records, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	// Denylisted sport and tomorrow's match dropped; undated record kept.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %v", len(records), records)
	}
	if _, ok := c.Lookup("2"); ok {
		t.Error("denylisted record should not be cached")
	}
	if _, ok := c.Lookup("3"); ok {
		t.Error("record from another day should not be cached")
	}
	if _, ok := c.Lookup("4"); !ok {
		t.Error("undated record should be kept")
	}
}

func TestRefreshFailureKeepsPreviousCache(t *testing.T) {
	provider := &testutil.StubProvider{Matches: []upstream.RawMatch{
		{"id": float64(1), "sport": "Soccer", "when": "2026-01-30, 07:00 PM"},
	}}
	c := newTestCache(provider)

	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}

	provider.Err = errors.New("upstream down")
	if _, err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if _, ok := c.Lookup("1"); !ok {
		t.Fatal("failed refresh must not clear the previous cache")
	}
}

func TestResolveReusesCacheUnlessForced(t *testing.T) {
	provider := &testutil.StubProvider{Matches: []upstream.RawMatch{
		{"id": float64(10), "sport": "Soccer", "when": "2026-01-30, 07:00 PM"},
	}}
	c := newTestCache(provider)

	// Empty cache: first resolve fetches.
	if _, ok, err := c.Resolve(context.Background(), "10", false); err != nil || !ok {
		t.Fatalf("Resolve = ok:%v err:%v", ok, err)
	}
	if got := provider.Calls.Load(); got != 1 {
		t.Fatalf("calls after first resolve = %d, want 1", got)
	}

	// Warm cache: no fetch.
	if _, ok, _ := c.Resolve(context.Background(), "10", false); !ok {
		t.Fatal("cached resolve failed")
	}
	if got := provider.Calls.Load(); got != 1 {
		t.Fatalf("calls after cached resolve = %d, want 1", got)
	}

	// Forced: fetches again.
	if _, ok, _ := c.Resolve(context.Background(), "10", true); !ok {
		t.Fatal("forced resolve failed")
	}
	if got := provider.Calls.Load(); got != 2 {
		t.Fatalf("calls after forced resolve = %d, want 2", got)
	}
}

func TestResolveUnknownID(t *testing.T) {
	provider := &testutil.StubProvider{Matches: []upstream.RawMatch{
		{"id": float64(10), "sport": "Soccer", "when": "2026-01-30, 07:00 PM"},
	}}
	c := newTestCache(provider)

	rec, ok, err := c.Resolve(context.Background(), "nope", false)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if ok || rec != nil {
		t.Fatalf("Resolve(nope) = %v, %v; want miss", rec, ok)
	}
}

func TestLookupMatchesUniversalIDCaseInsensitive(t *testing.T) {
	provider := &testutil.StubProvider{Matches: []upstream.RawMatch{
		{"id": float64(5), "universal_id": "UNI-5", "sport": "Soccer", "when": "2026-01-30, 07:00 PM"},
	}}
	c := newTestCache(provider)
	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if _, ok := c.Lookup("uni-5"); !ok {
		t.Error("universal id lookup should be case-insensitive")
	}
	if _, ok := c.Lookup("5"); !ok {
		t.Error("provider-local id should also resolve")
	}
}

func TestSearchAlwaysFetches(t *testing.T) {
	provider := &testutil.StubProvider{Matches: []upstream.RawMatch{
		{"id": float64(1), "sport": "Soccer", "orig_teams": "Flamengo vs Palmeiras", "when": "2026-01-30, 07:00 PM"},
	}}
	c := newTestCache(provider)

	for i := 0; i < 3; i++ {
		summaries, err := c.Search(context.Background())
		if err != nil {
			t.Fatalf("Search returned error: %v", err)
		}
		if len(summaries) != 1 || summaries[0].HomeName != "Flamengo" {
			t.Fatalf("unexpected summaries: %+v", summaries)
		}
	}
	if got := provider.Calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want one fetch per search", got)
	}
}

func TestSearchFailureReturnsEmptyList(t *testing.T) {
	provider := &testutil.StubProvider{Err: errors.New("boom")}
	c := newTestCache(provider)

	summaries, err := c.Search(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if summaries == nil || len(summaries) != 0 {
		t.Fatalf("summaries = %v, want empty non-nil list", summaries)
	}
}
