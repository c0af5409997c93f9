package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"match-overlay-service/internal/domain"
	"match-overlay-service/internal/state"
)

type fakeTracker struct {
	mu  sync.Mutex
	ids []string
}

func (t *fakeTracker) Track(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids = append(t.ids, id)
}

func (t *fakeTracker) tracked() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.ids...)
}

type fakeSearcher struct {
	results []domain.MatchSummary
	err     error
}

func (s *fakeSearcher) Search(ctx context.Context) ([]domain.MatchSummary, error) {
	return s.results, s.err
}

type fakeStore struct {
	mu        sync.Mutex
	snapshot  domain.GameState
	overrides []state.Delta
}

func (s *fakeStore) Snapshot() domain.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

func (s *fakeStore) ApplyOverride(d state.Delta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = append(s.overrides, d)
}

func (s *fakeStore) overrideCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.overrides)
}

func startHub(t *testing.T, tracker Tracker, searcher Searcher, store StateStore) *Hub {
	t.Helper()
	h := New(tracker, searcher, store, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func receive(t *testing.T, s *Session, what string) ServerMessage {
	t.Helper()
	select {
	case msg, ok := <-s.send:
		if !ok {
			t.Fatalf("send channel closed while waiting for %s", what)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
	return ServerMessage{}
}

func TestRegisterSeedsSnapshot(t *testing.T) {
	store := &fakeStore{snapshot: domain.GameState{HomeName: "Flamengo", AwayName: "Palmeiras"}}
	h := startHub(t, &fakeTracker{}, &fakeSearcher{}, store)

	s := NewSession("viewer-1", nil, h, nil)
	h.Register(s)

	msg := receive(t, s, "snapshot seed")
	if msg.Type != MessageTypeStateUpdated {
		t.Fatalf("seed type = %q, want %q", msg.Type, MessageTypeStateUpdated)
	}
	got, ok := msg.Payload.(domain.GameState)
	if !ok {
		t.Fatalf("seed payload is %T, want domain.GameState", msg.Payload)
	}
	if got.HomeName != "Flamengo" {
		t.Fatalf("seed home name = %q, want Flamengo", got.HomeName)
	}
}

func TestBroadcastReachesAllSessions(t *testing.T) {
	h := startHub(t, &fakeTracker{}, &fakeSearcher{}, &fakeStore{})

	a := NewSession("a", nil, h, nil)
	b := NewSession("b", nil, h, nil)
	h.Register(a)
	h.Register(b)
	receive(t, a, "seed for a")
	receive(t, b, "seed for b")

	h.BroadcastState(domain.GameState{HomeScore: "2"})

	for _, s := range []*Session{a, b} {
		msg := receive(t, s, "broadcast")
		got := msg.Payload.(domain.GameState)
		if got.HomeScore != "2" {
			t.Fatalf("session %s got score %q, want 2", s.ID, got.HomeScore)
		}
	}
}

func TestSlowSessionIsDisconnected(t *testing.T) {
	h := startHub(t, &fakeTracker{}, &fakeSearcher{}, &fakeStore{})

	s := NewSession("slow", nil, h, nil)
	h.Register(s)
	receive(t, s, "seed")

	// Nothing drains the channel, so fill it past capacity.
	for i := 0; i < sendBufferSize+4; i++ {
		h.BroadcastState(domain.GameState{})
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.SessionCount() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow session was never unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTrackMessageForwardsToTracker(t *testing.T) {
	tracker := &fakeTracker{}
	h := startHub(t, tracker, &fakeSearcher{}, &fakeStore{})
	s := NewSession("op", nil, h, nil)

	payload, _ := json.Marshal(TrackRequest{MatchID: "m-9"})
	h.handleMessage(context.Background(), s, ClientMessage{Type: MessageTypeTrack, Payload: payload})

	if got := tracker.tracked(); len(got) != 1 || got[0] != "m-9" {
		t.Fatalf("tracked ids = %v, want [m-9]", got)
	}
}

func TestTrackWithEmptyPayloadClearsTracking(t *testing.T) {
	tracker := &fakeTracker{}
	h := startHub(t, tracker, &fakeSearcher{}, &fakeStore{})
	s := NewSession("op", nil, h, nil)

	h.handleMessage(context.Background(), s, ClientMessage{Type: MessageTypeTrack})

	if got := tracker.tracked(); len(got) != 1 || got[0] != "" {
		t.Fatalf("tracked ids = %v, want one empty id", got)
	}
}

func TestOverrideMessageMergesIntoStore(t *testing.T) {
	store := &fakeStore{}
	h := startHub(t, &fakeTracker{}, &fakeSearcher{}, store)
	s := NewSession("op", nil, h, nil)

	h.handleMessage(context.Background(), s, ClientMessage{
		Type:    MessageTypeOverride,
		Payload: json.RawMessage(`{"homeName":"Santos","homeScore":3}`),
	})

	if store.overrideCount() != 1 {
		t.Fatalf("override count = %d, want 1", store.overrideCount())
	}
	d := store.overrides[0]
	if d.HomeName == nil || *d.HomeName != "Santos" {
		t.Fatalf("override delta = %+v, want homeName Santos", d)
	}
	if d.HomeScore == nil || string(*d.HomeScore) != "3" {
		t.Fatalf("override delta = %+v, want homeScore 3", d)
	}
}

func TestEmptyOverrideIsIgnored(t *testing.T) {
	store := &fakeStore{}
	h := startHub(t, &fakeTracker{}, &fakeSearcher{}, store)
	s := NewSession("op", nil, h, nil)

	h.handleMessage(context.Background(), s, ClientMessage{
		Type:    MessageTypeOverride,
		Payload: json.RawMessage(`{}`),
	})

	if store.overrideCount() != 0 {
		t.Fatalf("override count = %d, want 0", store.overrideCount())
	}
}

func TestSearchRepliesToCallerOnly(t *testing.T) {
	searcher := &fakeSearcher{results: []domain.MatchSummary{{HomeName: "Flamengo", AwayName: "Palmeiras"}}}
	h := startHub(t, &fakeTracker{}, searcher, &fakeStore{})

	caller := NewSession("op", nil, h, nil)
	other := NewSession("viewer", nil, h, nil)
	h.Register(other)
	receive(t, other, "seed")

	h.handleMessage(context.Background(), caller, ClientMessage{Type: MessageTypeSearch})

	msg := receive(t, caller, "search results")
	if msg.Type != MessageTypeSearchResults {
		t.Fatalf("type = %q, want %q", msg.Type, MessageTypeSearchResults)
	}
	results := msg.Payload.([]domain.MatchSummary)
	if len(results) != 1 || results[0].HomeName != "Flamengo" {
		t.Fatalf("results = %+v", results)
	}

	select {
	case msg := <-other.send:
		t.Fatalf("non-caller received %q", msg.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSearchFailureReturnsEmptyList(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("upstream down")}
	h := startHub(t, &fakeTracker{}, searcher, &fakeStore{})
	s := NewSession("op", nil, h, nil)

	h.handleMessage(context.Background(), s, ClientMessage{Type: MessageTypeSearch})

	msg := receive(t, s, "search results")
	results := msg.Payload.([]domain.MatchSummary)
	if results == nil || len(results) != 0 {
		t.Fatalf("results = %v, want empty non-nil list", results)
	}
}

func TestUnknownMessageTypeGetsError(t *testing.T) {
	h := startHub(t, &fakeTracker{}, &fakeSearcher{}, &fakeStore{})
	s := NewSession("op", nil, h, nil)

	h.handleMessage(context.Background(), s, ClientMessage{Type: "subscribe"})

	msg := receive(t, s, "error reply")
	if msg.Type != MessageTypeError {
		t.Fatalf("type = %q, want %q", msg.Type, MessageTypeError)
	}
	payload := msg.Payload.(ErrorPayload)
	if payload.Code != "unknown_message_type" {
		t.Fatalf("code = %q", payload.Code)
	}
}
