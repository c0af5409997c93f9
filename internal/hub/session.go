package hub

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"match-overlay-service/internal/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait).
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size. Overrides carry a partial game state at
	// most, so this stays small.
	maxMessageSize = 8192

	sendBufferSize = 32
)

// Session is one connected viewer or operator. The hub owns the send channel;
// the two pumps own the websocket connection.
type Session struct {
	ID     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan ServerMessage
	logger *slog.Logger
}

func NewSession(id string, conn *websocket.Conn, h *Hub, logger *slog.Logger) *Session {
	return &Session{
		ID:     id,
		hub:    h,
		conn:   conn,
		send:   make(chan ServerMessage, sendBufferSize),
		logger: logger,
	}
}

// ReadPump reads client messages until the connection drops, then unregisters
// the session.
func (s *Session) ReadPump(ctx context.Context) {
	defer func() {
		s.hub.Unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.Warn(s.logger, "unexpected close",
					slog.String(logging.FieldSessionID, s.ID), "error", err)
			}
			return
		}
		s.hub.handleMessage(ctx, s, msg)
	}
}

// WritePump drains the send channel onto the connection and keeps the link
// alive with pings.
func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(msg); err != nil {
				logging.Warn(s.logger, "write failed",
					slog.String(logging.FieldSessionID, s.ID), "error", err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues a message without blocking. Returns false when the buffer is
// full.
func (s *Session) TrySend(msg ServerMessage) bool {
	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}

func (s *Session) sendError(code, message string) {
	s.TrySend(ServerMessage{
		Type:      MessageTypeError,
		Payload:   ErrorPayload{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	})
}
