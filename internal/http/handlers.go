package http

import (
	"context"
	"encoding/json"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"match-overlay-service/internal/domain"
	"match-overlay-service/internal/hub"
	"match-overlay-service/internal/logging"
	"match-overlay-service/internal/poller"
)

// StateSource exposes the current game state snapshot.
type StateSource interface {
	Snapshot() domain.GameState
}

// PollReporter exposes poll loop health for readiness checks.
type PollReporter interface {
	Status() poller.Status
}

// Handler wires HTTP routes to the overlay service.
type Handler struct {
	store    StateSource
	poll     PollReporter
	hub      *hub.Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
	now      func() time.Time
}

// NewHandler constructs a Handler. allowedOrigins of ["*"] accepts any origin
// on websocket upgrades.
func NewHandler(store StateSource, poll PollReporter, h *hub.Hub, logger *slog.Logger, allowedOrigins []string) *Handler {
	return &Handler{
		store:  store,
		poll:   poll,
		hub:    h,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		now: time.Now,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the poll loop is healthy enough to serve fresh data.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	st := h.poll.Status()
	resp := map[string]any{
		"ready":               st.IsReady(),
		"trackedMatchId":      st.TrackedMatchID,
		"consecutiveFailures": st.ConsecutiveFailures,
	}
	if !st.LastSuccess.IsZero() {
		resp["lastSuccess"] = st.LastSuccess.UTC().Format(time.RFC3339)
	}
	if st.LastError != "" {
		resp["lastError"] = st.LastError
	}
	status := nethttp.StatusOK
	if !st.IsReady() {
		status = nethttp.StatusServiceUnavailable
	}
	h.writeJSON(w, status, resp)
}

// State returns the current game state snapshot. Useful for overlay pages that
// render once without holding a socket open.
func (h *Handler) State(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeJSON(w, nethttp.StatusOK, h.store.Snapshot())
}

// WebSocket upgrades the connection and hands it to the hub.
func (h *Handler) WebSocket(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		logging.Warn(h.logger, "websocket upgrade failed", "error", err)
		return
	}

	session := hub.NewSession(uuid.NewString(), conn, h.hub, h.logger)
	h.hub.Register(session)

	// The pumps outlive the request; shutdown reaches them through the hub
	// closing the session's send channel.
	go session.WritePump(context.Background())
	go session.ReadPump(context.Background())
}

func (h *Handler) writeJSON(w nethttp.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(h.logger, "failed to encode response", err)
	}
}

func originChecker(allowed []string) func(*nethttp.Request) bool {
	for _, origin := range allowed {
		if origin == "*" {
			return func(*nethttp.Request) bool { return true }
		}
	}
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		set[origin] = true
	}
	return func(r *nethttp.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return set[origin]
	}
}
