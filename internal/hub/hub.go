package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"match-overlay-service/internal/domain"
	"match-overlay-service/internal/logging"
	"match-overlay-service/internal/metrics"
	"match-overlay-service/internal/state"
)

const broadcastBufferSize = 64

// Tracker selects or clears the match being polled.
type Tracker interface {
	Track(id string)
}

// Searcher fetches a fresh directory listing as match summaries.
type Searcher interface {
	Search(ctx context.Context) ([]domain.MatchSummary, error)
}

// StateStore is the slice of the game state store the hub needs.
type StateStore interface {
	Snapshot() domain.GameState
	ApplyOverride(state.Delta)
}

// Hub owns the set of connected sessions and fans every game state change out
// to all of them. New sessions are seeded with a snapshot before they receive
// live updates.
type Hub struct {
	tracker  Tracker
	searcher Searcher
	store    StateStore
	logger   *slog.Logger
	metrics  *metrics.Recorder

	sessions   map[*Session]bool
	sessionsMu sync.RWMutex

	broadcast  chan domain.GameState
	register   chan *Session
	unregister chan *Session
}

func New(tracker Tracker, searcher Searcher, store StateStore, logger *slog.Logger, recorder *metrics.Recorder) *Hub {
	return &Hub{
		tracker:    tracker,
		searcher:   searcher,
		store:      store,
		logger:     logger,
		metrics:    recorder,
		sessions:   make(map[*Session]bool),
		broadcast:  make(chan domain.GameState, broadcastBufferSize),
		register:   make(chan *Session),
		unregister: make(chan *Session),
	}
}

// Run processes registration and broadcast events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	logging.Info(h.logger, "hub started")
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case s := <-h.register:
			h.registerSession(s)
		case s := <-h.unregister:
			h.unregisterSession(s)
		case snapshot := <-h.broadcast:
			h.broadcastState(snapshot)
		}
	}
}

// Register adds a session and immediately seeds it with the current state.
func (h *Hub) Register(s *Session) {
	h.register <- s
}

// Unregister removes a session and closes its send channel.
func (h *Hub) Unregister(s *Session) {
	h.unregister <- s
}

// BroadcastState queues a full-state fan-out to every connected session. It is
// safe to call from the store's change callback; when the buffer is full the
// snapshot is dropped because a newer one is already queued behind it.
func (h *Hub) BroadcastState(snapshot domain.GameState) {
	select {
	case h.broadcast <- snapshot:
	default:
		logging.Warn(h.logger, "broadcast buffer full, dropping snapshot")
	}
}

// SessionCount returns the number of connected sessions.
func (h *Hub) SessionCount() int {
	h.sessionsMu.RLock()
	defer h.sessionsMu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) registerSession(s *Session) {
	h.sessionsMu.Lock()
	h.sessions[s] = true
	total := len(h.sessions)
	h.sessionsMu.Unlock()

	if h.metrics != nil {
		h.metrics.RecordViewerConnected(1)
	}

	s.TrySend(ServerMessage{
		Type:      MessageTypeStateUpdated,
		Payload:   h.store.Snapshot(),
		Timestamp: time.Now().UTC(),
	})

	logging.Info(h.logger, "viewer connected",
		slog.String(logging.FieldSessionID, s.ID),
		slog.Int(logging.FieldCount, total),
	)
}

func (h *Hub) unregisterSession(s *Session) {
	h.sessionsMu.Lock()
	_, ok := h.sessions[s]
	if ok {
		delete(h.sessions, s)
		close(s.send)
	}
	total := len(h.sessions)
	h.sessionsMu.Unlock()

	if !ok {
		return
	}
	if h.metrics != nil {
		h.metrics.RecordViewerConnected(-1)
	}
	logging.Info(h.logger, "viewer disconnected",
		slog.String(logging.FieldSessionID, s.ID),
		slog.Int(logging.FieldCount, total),
	)
}

func (h *Hub) broadcastState(snapshot domain.GameState) {
	h.sessionsMu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.sessionsMu.RUnlock()

	msg := ServerMessage{
		Type:      MessageTypeStateUpdated,
		Payload:   snapshot,
		Timestamp: time.Now().UTC(),
	}

	for _, s := range sessions {
		if !s.TrySend(msg) {
			// Slow consumer. Cut it loose rather than stall everyone else.
			logging.Warn(h.logger, "viewer send buffer full, disconnecting",
				slog.String(logging.FieldSessionID, s.ID))
			go h.Unregister(s)
		}
	}

	if h.metrics != nil {
		h.metrics.RecordBroadcast(len(sessions))
	}
}

// handleMessage dispatches one inbound client message. Called from a session's
// read pump.
func (h *Hub) handleMessage(ctx context.Context, s *Session, msg ClientMessage) {
	switch msg.Type {
	case MessageTypeTrack:
		h.handleTrack(s, msg)
	case MessageTypeSearch:
		// The directory fetch goes to the network; keep it off the read pump.
		go h.handleSearch(ctx, s)
	case MessageTypeOverride:
		h.handleOverride(s, msg)
	default:
		s.sendError("unknown_message_type", "unknown message type: "+msg.Type)
	}
}

func (h *Hub) handleTrack(s *Session, msg ClientMessage) {
	var req TrackRequest
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			s.sendError("invalid_payload", "track payload must be {matchId}")
			return
		}
	}
	logging.Info(h.logger, "track requested",
		slog.String(logging.FieldSessionID, s.ID),
		slog.String(logging.FieldMatchID, req.MatchID),
	)
	h.tracker.Track(req.MatchID)
}

func (h *Hub) handleSearch(ctx context.Context, s *Session) {
	results, err := h.searcher.Search(ctx)
	if err != nil {
		logging.Error(h.logger, "directory search failed", err,
			slog.String(logging.FieldSessionID, s.ID))
	}
	if results == nil {
		results = []domain.MatchSummary{}
	}
	s.TrySend(ServerMessage{
		Type:      MessageTypeSearchResults,
		Payload:   results,
		Timestamp: time.Now().UTC(),
	})
}

func (h *Hub) handleOverride(s *Session, msg ClientMessage) {
	var delta state.Delta
	if err := json.Unmarshal(msg.Payload, &delta); err != nil {
		s.sendError("invalid_payload", "override payload must be a partial game state")
		return
	}
	if delta.IsZero() {
		return
	}
	logging.Info(h.logger, "override applied",
		slog.String(logging.FieldSessionID, s.ID))
	h.store.ApplyOverride(delta)
}

func (h *Hub) shutdown() {
	h.sessionsMu.Lock()
	defer h.sessionsMu.Unlock()
	logging.Info(h.logger, "hub shutting down",
		slog.Int(logging.FieldCount, len(h.sessions)))
	for s := range h.sessions {
		close(s.send)
		delete(h.sessions, s)
	}
}
