package gateway

import (
	"encoding/json"
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected      = errors.New("not connected")
	ErrNoAuthToken       = errors.New("no auth token available")
	ErrStaleConnection   = errors.New("connection stale (no pong)")
	ErrAlreadyClosed     = errors.New("already closed")
	ErrConnectInProgress = errors.New("connect already in progress")
)

// ConnectionState tracks where the manager is in the connection lifecycle.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

// String returns the string representation of a ConnectionState.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// ConnectionStatus is a point-in-time snapshot of the manager's state.
type ConnectionStatus struct {
	State             ConnectionState
	Connected         bool
	ReconnectAttempts int
	UserID            string
}

// Frame is the JSON envelope for every message in either direction.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// InboundFrame wraps raw frame bytes with a receive timestamp.
type InboundFrame struct {
	Data       []byte    // Raw frame bytes from the WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// Outbound command payloads.

// RoomPayload targets a two-party room by the other participant's id.
type RoomPayload struct {
	RecipientID string `json:"recipientId"`
}

// SendMessagePayload carries a new chat message.
type SendMessagePayload struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
	Type        string `json:"type"`
}

// MarkReadPayload acknowledges a message as read.
type MarkReadPayload struct {
	MessageID string `json:"messageId"`
}

// TypingPayload signals composing state to the recipient.
type TypingPayload struct {
	RecipientID string `json:"recipientId"`
	IsTyping    bool   `json:"isTyping"`
}

// InvitePayload opens a chat invitation.
type InvitePayload struct {
	RecipientID string `json:"recipientId"`
	Message     string `json:"message"`
}

// InviteAnswerPayload accepts or rejects an invitation.
type InviteAnswerPayload struct {
	InvitationID string `json:"invitationId"`
}

// socketConfig configures a raw gateway socket.
type socketConfig struct {
	URL              string        // Gateway URL (e.g., wss://api.plv.app/chat)
	Token            string        // Auth token passed in the handshake
	UserID           string        // User id passed in the handshake
	HandshakeTimeout time.Duration // Dial timeout
	WriteTimeout     time.Duration // Write deadline for sends
	PingInterval     time.Duration // Keepalive ping cadence
	PingTimeout      time.Duration // Max time without pong before stale
	BufferSize       int           // Frame channel buffer size
}

// Config configures the gateway Manager.
type Config struct {
	URL               string        // Gateway URL
	HandshakeTimeout  time.Duration // Dial timeout
	WriteTimeout      time.Duration // Write deadline for sends
	PingInterval      time.Duration // Keepalive ping cadence
	ReconnectAttempts int           // Max automatic reconnect attempts
	ReconnectDelay    time.Duration // Fixed wait between reconnect attempts
	TokenRetries      int           // Max token fetch attempts
	TokenRetryDelay   time.Duration // Fixed wait between token fetches
	TypingExpiry      time.Duration // Client-side typing indicator expiry
	BufferSize        int           // Inbound frame buffer size
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout:  10 * time.Second,
		WriteTimeout:      5 * time.Second,
		PingInterval:      25 * time.Second,
		ReconnectAttempts: 5,
		ReconnectDelay:    3 * time.Second,
		TokenRetries:      3,
		TokenRetryDelay:   1 * time.Second,
		TypingExpiry:      3 * time.Second,
		BufferSize:        256,
	}
}
