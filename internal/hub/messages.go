package hub

import (
	"encoding/json"
	"time"
)

// Inbound message types (operator/viewer -> server).
const (
	MessageTypeTrack    = "track"
	MessageTypeSearch   = "search"
	MessageTypeOverride = "override"
)

// Outbound message types (server -> client).
const (
	MessageTypeStateUpdated  = "stateUpdated"
	MessageTypeSearchResults = "searchResults"
	MessageTypeError         = "error"
)

// ClientMessage is the envelope for everything a connection sends us. Payload
// stays raw until the type is known.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage is the envelope for everything we send to a connection.
type ServerMessage struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackRequest selects the match to poll. An empty id clears tracking.
type TrackRequest struct {
	MatchID string `json:"matchId"`
}

// ErrorPayload reports a rejected client message.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
