package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Socket is a single live WebSocket to the chat gateway.
type Socket interface {
	// Connect establishes the WebSocket connection.
	Connect(ctx context.Context) error

	// Close gracefully closes the connection.
	Close() error

	// Send writes raw frame bytes to the connection.
	Send(data []byte) error

	// Frames returns a channel of raw inbound frames.
	Frames() <-chan InboundFrame

	// Errors returns a channel of connection errors.
	Errors() <-chan error

	// IsConnected returns current connection state.
	IsConnected() bool
}

// socket implements the Socket interface over gorilla/websocket.
type socket struct {
	cfg    socketConfig
	logger *slog.Logger

	conn *websocket.Conn

	// Output channels
	frames chan InboundFrame
	errors chan error
	done   chan struct{}

	// Write serialization
	writeMu sync.Mutex

	// State
	mu         sync.RWMutex
	connected  bool
	lastPongAt time.Time
	closed     bool
}

// newSocket creates an unconnected gateway socket.
func newSocket(cfg socketConfig, logger *slog.Logger) Socket {
	if logger == nil {
		logger = slog.Default()
	}

	return &socket{
		cfg:    cfg,
		logger: logger,
		frames: make(chan InboundFrame, cfg.BufferSize),
		errors: make(chan error, 1),
		done:   make(chan struct{}),
	}
}

// Connect dials the gateway, passing the auth token and user id both as a
// bearer header and as handshake query parameters (the gateway accepts
// either; browser clients can only use the query form).
func (s *socket) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrAlreadyClosed
	}
	s.mu.Unlock()

	dialURL, err := s.handshakeURL()
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Accept", "application/json")
	if s.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: s.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, dialURL, header)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.lastPongAt = time.Now()
	s.mu.Unlock()

	// Server-initiated pings get pongs back automatically; both directions
	// refresh the staleness clock.
	conn.SetPingHandler(func(data string) error {
		s.mu.Lock()
		s.lastPongAt = time.Now()
		s.mu.Unlock()

		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})

	conn.SetPongHandler(func(data string) error {
		s.mu.Lock()
		s.lastPongAt = time.Now()
		s.mu.Unlock()
		return nil
	})

	go s.readLoop()
	go s.keepaliveLoop()

	s.logger.Debug("gateway socket connected", "url", s.cfg.URL)

	return nil
}

// handshakeURL appends the auth query parameters to the configured URL.
func (s *socket) handshakeURL() (string, error) {
	u, err := url.Parse(s.cfg.URL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	if s.cfg.Token != "" {
		q.Set("token", s.cfg.Token)
	}
	if s.cfg.UserID != "" {
		q.Set("userId", s.cfg.UserID)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Close gracefully closes the connection. Safe to call more than once.
func (s *socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.connected = false
	s.mu.Unlock()

	// Signal goroutines to stop
	close(s.done)

	if s.conn != nil {
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return s.conn.Close()
	}

	return nil
}

// Send writes raw frame bytes to the connection.
func (s *socket) Send(data []byte) error {
	s.mu.RLock()
	if !s.connected {
		s.mu.RUnlock()
		return ErrNotConnected
	}
	s.mu.RUnlock()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Frames returns the inbound frame channel.
func (s *socket) Frames() <-chan InboundFrame {
	return s.frames
}

// Errors returns the errors channel.
func (s *socket) Errors() <-chan error {
	return s.errors
}

// IsConnected returns the current connection state.
func (s *socket) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// readLoop reads frames from the WebSocket and sends them to the frames channel.
func (s *socket) readLoop() {
	defer func() {
		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()
	}()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		_, data, err := s.conn.ReadMessage()
		receivedAt := time.Now()

		if err != nil {
			// Ignore errors after Close() is called
			select {
			case <-s.done:
				return
			default:
				select {
				case s.errors <- err:
				default:
				}
				return
			}
		}

		frame := InboundFrame{
			Data:       data,
			ReceivedAt: receivedAt,
		}

		select {
		case s.frames <- frame:
		case <-s.done:
			return
		default:
			s.logger.Warn("frame buffer full, dropping frame")
		}
	}
}

// keepaliveLoop sends pings and flags stale connections.
func (s *socket) keepaliveLoop() {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.RLock()
			conn := s.conn
			s.mu.RUnlock()

			if conn != nil {
				deadline := time.Now().Add(s.cfg.WriteTimeout)
				if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
					s.logger.Debug("failed to send ping", "error", err)
				}
			}

			s.mu.RLock()
			lastPong := s.lastPongAt
			s.mu.RUnlock()

			if time.Since(lastPong) > s.cfg.PingTimeout {
				s.logger.Warn("no pong received, connection stale",
					"last_pong", lastPong,
					"timeout", s.cfg.PingTimeout,
				)
				select {
				case s.errors <- ErrStaleConnection:
				default:
				}
				return
			}
		}
	}
}
