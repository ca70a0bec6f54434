package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Selva2621/plv/internal/event"
	"github.com/Selva2621/plv/internal/model"
	"github.com/Selva2621/plv/internal/retry"
	"github.com/Selva2621/plv/internal/token"
)

// Manager owns the live gateway socket and exposes the chat operations.
// Construct one per session with NewManager; the composition root owns its
// lifetime.
type Manager struct {
	cfg      Config
	store    token.Store
	registry *event.Registry
	logger   *slog.Logger

	tokenPolicy     retry.Policy
	reconnectPolicy retry.Policy

	// newSocket is swappable in tests.
	newSocket func(socketConfig, *slog.Logger) Socket

	mu                sync.RWMutex
	sock              Socket
	state             ConnectionState
	userID            string
	reconnectAttempts int
	gen               int // bumped on connect/disconnect to invalidate old pumps
	quit              chan struct{}

	typing   *typingTracker
	presence *presenceSet
}

// NewManager creates a gateway manager. The registry is shared with the
// manager's subscribers; the token store is read for the auth_token key.
func NewManager(cfg Config, store token.Store, registry *event.Registry, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		cfg:             cfg,
		store:           store,
		registry:        registry,
		logger:          logger,
		tokenPolicy:     retry.NewPolicy(cfg.TokenRetries, cfg.TokenRetryDelay),
		reconnectPolicy: retry.NewPolicy(cfg.ReconnectAttempts, cfg.ReconnectDelay),
		newSocket:       newSocket,
		state:           StateDisconnected,
		presence:        newPresenceSet(),
	}

	m.typing = newTypingTracker(cfg.TypingExpiry, func(ev model.TypingEvent) {
		registry.Emit(event.UserTyping, ev)
	})

	return m
}

// Connect retrieves the auth token and opens the gateway socket. If the
// manager is already connected it returns nil immediately. Token absence
// after the configured retries fails the whole operation with ErrNoAuthToken.
func (m *Manager) Connect(ctx context.Context, userID string) error {
	m.mu.Lock()
	if m.state == StateConnected && m.sock != nil && m.sock.IsConnected() {
		m.mu.Unlock()
		return nil
	}
	if m.state == StateConnecting {
		m.mu.Unlock()
		return ErrConnectInProgress
	}
	prev := m.state
	m.state = StateConnecting
	startGen := m.gen
	m.mu.Unlock()

	fail := func(err error) error {
		m.mu.Lock()
		if prev == StateReconnecting {
			m.state = StateReconnecting
		} else {
			m.state = StateDisconnected
		}
		m.mu.Unlock()
		return err
	}

	authToken, subject, err := m.fetchToken(ctx)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrNoAuthToken, err))
	}
	if userID == "" {
		userID = subject
	}

	sock := m.newSocket(socketConfig{
		URL:              m.cfg.URL,
		Token:            authToken,
		UserID:           userID,
		HandshakeTimeout: m.cfg.HandshakeTimeout,
		WriteTimeout:     m.cfg.WriteTimeout,
		PingInterval:     m.cfg.PingInterval,
		PingTimeout:      2 * m.cfg.PingInterval,
		BufferSize:       m.cfg.BufferSize,
	}, m.logger.With("component", "gateway_socket"))

	if err := sock.Connect(ctx); err != nil {
		m.logger.Warn("gateway connect failed", "url", m.cfg.URL, "error", err)
		return fail(fmt.Errorf("connect gateway: %w", err))
	}

	m.mu.Lock()
	if m.gen != startGen {
		// Disconnect was called while the dial was in flight; honor it.
		m.mu.Unlock()
		sock.Close()
		return ErrAlreadyClosed
	}
	// A stale socket may survive to here when Connect is called during the
	// window where the manager still says connected but the socket is dead.
	// Release it and stop its pump, or its fd and goroutines leak.
	prevSock := m.sock
	if m.quit != nil {
		close(m.quit)
	}
	m.sock = sock
	m.state = StateConnected
	m.userID = userID
	m.reconnectAttempts = 0
	m.gen++
	gen := m.gen
	m.quit = make(chan struct{})
	quit := m.quit
	m.mu.Unlock()

	if prevSock != nil {
		prevSock.Close()
	}

	go m.pump(sock, gen, quit)

	m.logger.Info("gateway connected", "user_id", userID)

	return nil
}

// fetchToken reads the stored auth token with bounded retry, rejecting
// expired tokens so they count as absent. It returns the token and the
// subject claim.
func (m *Manager) fetchToken(ctx context.Context) (string, string, error) {
	var authToken, subject string

	err := m.tokenPolicy.Do(ctx, func(ctx context.Context) error {
		value, err := m.store.Get(ctx, token.AuthTokenKey)
		if err != nil {
			return err
		}

		sub, err := token.Inspect(value)
		if err != nil {
			// A dead token is as good as no token.
			if derr := m.store.Delete(ctx, token.AuthTokenKey); derr != nil {
				m.logger.Warn("failed to delete invalid token", "error", derr)
			}
			return err
		}

		authToken, subject = value, sub
		return nil
	})

	return authToken, subject, err
}

// Disconnect tears the socket down and clears the cached user id. It is
// idempotent and stops any pending automatic reconnection.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	m.gen++
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	sock := m.sock
	m.sock = nil
	m.userID = ""
	m.state = StateDisconnected
	m.reconnectAttempts = 0
	m.mu.Unlock()

	m.typing.reset()
	m.presence.reset()

	if sock != nil {
		return sock.Close()
	}
	return nil
}

// Reconnect disconnects, waits the configured reconnect delay, then connects
// again with the previously known user id.
func (m *Manager) Reconnect(ctx context.Context) error {
	m.mu.RLock()
	userID := m.userID
	m.mu.RUnlock()

	if err := m.Disconnect(); err != nil {
		m.logger.Warn("disconnect before reconnect failed", "error", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.cfg.ReconnectDelay):
	}

	return m.Connect(ctx, userID)
}

// -----------------------------------------------------------------------------
// Guarded operations
// -----------------------------------------------------------------------------

// JoinRoom joins the two-party room shared with recipientID.
func (m *Manager) JoinRoom(recipientID string) error {
	return m.emitCommand(event.CmdJoinRoom, RoomPayload{RecipientID: recipientID})
}

// LeaveRoom leaves the two-party room shared with recipientID.
func (m *Manager) LeaveRoom(recipientID string) error {
	return m.emitCommand(event.CmdLeaveRoom, RoomPayload{RecipientID: recipientID})
}

// SendMessage sends a chat message to recipientID.
func (m *Manager) SendMessage(recipientID, content string, msgType model.MessageType) error {
	return m.emitCommand(event.CmdSendMessage, SendMessagePayload{
		RecipientID: recipientID,
		Content:     content,
		Type:        string(msgType),
	})
}

// MarkMessageRead reports a read receipt for messageID.
func (m *Manager) MarkMessageRead(messageID uuid.UUID) error {
	return m.emitCommand(event.CmdMarkMessageRead, MarkReadPayload{MessageID: messageID.String()})
}

// SendTypingStatus signals composing state to recipientID.
func (m *Manager) SendTypingStatus(recipientID string, isTyping bool) error {
	return m.emitCommand(event.CmdTyping, TypingPayload{
		RecipientID: recipientID,
		IsTyping:    isTyping,
	})
}

// RequestActiveUsers asks the gateway for a presence refresh.
func (m *Manager) RequestActiveUsers() error {
	return m.emitCommand(event.CmdGetActiveUsers, nil)
}

// SendChatInvitation proposes a chat room to recipientID.
func (m *Manager) SendChatInvitation(recipientID, message string) error {
	return m.emitCommand(event.CmdSendInvitation, InvitePayload{
		RecipientID: recipientID,
		Message:     message,
	})
}

// AcceptChatInvitation accepts a pending invitation.
func (m *Manager) AcceptChatInvitation(invitationID uuid.UUID) error {
	return m.emitCommand(event.CmdAcceptInvitation, InviteAnswerPayload{InvitationID: invitationID.String()})
}

// RejectChatInvitation rejects a pending invitation.
func (m *Manager) RejectChatInvitation(invitationID uuid.UUID) error {
	return m.emitCommand(event.CmdRejectInvitation, InviteAnswerPayload{InvitationID: invitationID.String()})
}

// emitCommand marshals a frame and writes it, failing with ErrNotConnected
// (never a panic) when the socket is down.
func (m *Manager) emitCommand(name string, payload any) error {
	m.mu.RLock()
	sock := m.sock
	connected := m.state == StateConnected
	m.mu.RUnlock()

	if !connected || sock == nil || !sock.IsConnected() {
		m.logger.Warn("gateway command while disconnected", "command", name)
		return ErrNotConnected
	}

	frame := struct {
		Event string `json:"event"`
		Data  any    `json:"data,omitempty"`
	}{Event: name, Data: payload}

	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	if err := sock.Send(data); err != nil {
		return fmt.Errorf("send %s: %w", name, err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Status accessors
// -----------------------------------------------------------------------------

// Connected reports true only if both the manager state and the live socket
// agree. The double check guards against the window between a transport
// failure and the pump observing it.
func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateConnected && m.sock != nil && m.sock.IsConnected()
}

// UserID returns the user id of the current session, empty when disconnected.
func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID
}

// Status returns a snapshot of the connection state.
func (m *Manager) Status() ConnectionStatus {
	connected := m.Connected()

	m.mu.RLock()
	defer m.mu.RUnlock()
	return ConnectionStatus{
		State:             m.state,
		Connected:         connected,
		ReconnectAttempts: m.reconnectAttempts,
		UserID:            m.userID,
	}
}

// ActiveUsers returns a snapshot of the users currently online.
func (m *Manager) ActiveUsers() []model.ActiveUser {
	return m.presence.snapshot()
}

// -----------------------------------------------------------------------------
// Inbound pump
// -----------------------------------------------------------------------------

// pump reads frames and errors from one socket generation until the socket
// dies or the manager disconnects.
func (m *Manager) pump(sock Socket, gen int, quit <-chan struct{}) {
	for {
		select {
		case <-quit:
			return

		case err := <-sock.Errors():
			m.handleTransportError(sock, gen, err)
			return

		case frame, ok := <-sock.Frames():
			if !ok {
				return
			}
			m.dispatch(frame)
		}
	}
}

// handleTransportError surfaces an unsolicited disconnect and starts the
// bounded automatic reconnection loop.
func (m *Manager) handleTransportError(sock Socket, gen int, err error) {
	m.logger.Warn("gateway transport error", "error", err)

	m.mu.Lock()
	if gen != m.gen {
		// A newer connection superseded this one while the error was in flight.
		m.mu.Unlock()
		sock.Close()
		return
	}
	m.state = StateReconnecting
	userID := m.userID
	quit := m.quit
	m.mu.Unlock()

	sock.Close()
	m.typing.reset()

	m.registry.Emit(event.Error, err)
	m.registry.Emit(event.Disconnected, err.Error())

	go m.autoReconnect(userID, quit)
}

// autoReconnect retries Connect through the reconnect policy. Disconnect
// aborts it via the quit channel.
func (m *Manager) autoReconnect(userID string, quit <-chan struct{}) {
	// The first attempt waits the full reconnect delay too.
	select {
	case <-quit:
		return
	case <-time.After(m.cfg.ReconnectDelay):
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	attempt := 0
	err := m.reconnectPolicy.Do(ctx, func(ctx context.Context) error {
		attempt++
		m.mu.Lock()
		m.reconnectAttempts = attempt
		m.mu.Unlock()

		m.logger.Info("attempting gateway reconnection",
			"attempt", attempt,
			"max_attempts", m.cfg.ReconnectAttempts,
		)

		if err := m.Connect(ctx, userID); err != nil {
			m.logger.Warn("gateway reconnection failed",
				"attempt", attempt,
				"error", err,
			)
			return err
		}
		return nil
	})
	if err == nil || ctx.Err() != nil {
		return
	}

	m.logger.Error("gateway reconnection attempts exhausted",
		"attempts", m.cfg.ReconnectAttempts,
	)

	m.mu.Lock()
	m.state = StateDisconnected
	m.mu.Unlock()

	m.registry.Emit(event.Error, fmt.Errorf("reconnect: %w", err))
}

// dispatch decodes one inbound frame and re-emits it through the registry
// under the server's event name.
func (m *Manager) dispatch(frame InboundFrame) {
	var f Frame
	if err := json.Unmarshal(frame.Data, &f); err != nil {
		m.logger.Warn("unparseable gateway frame", "error", err)
		return
	}

	switch f.Event {
	case event.NewMessage:
		if msg, ok := decodePayload[model.Message](m.logger, f.Event, f.Data); ok {
			m.registry.Emit(f.Event, *msg)
		}

	case event.MessageRead:
		if receipt, ok := decodePayload[model.ReadReceipt](m.logger, f.Event, f.Data); ok {
			m.registry.Emit(f.Event, *receipt)
		}

	case event.RoomJoined, event.RoomLeft, event.UserJoinedRoom:
		if room, ok := decodePayload[model.RoomEvent](m.logger, f.Event, f.Data); ok {
			m.registry.Emit(f.Event, *room)
		}

	case event.UserTyping:
		if typing, ok := decodePayload[model.TypingEvent](m.logger, f.Event, f.Data); ok {
			m.typing.observe(*typing)
			m.registry.Emit(f.Event, *typing)
		}

	case event.UserOnline:
		if user, ok := decodePayload[model.ActiveUser](m.logger, f.Event, f.Data); ok {
			m.presence.setOnline(*user)
			m.registry.Emit(f.Event, *user)
		}

	case event.UserOffline:
		if user, ok := decodePayload[model.ActiveUser](m.logger, f.Event, f.Data); ok {
			m.presence.setOffline(user.UserID)
			m.registry.Emit(f.Event, *user)
		}

	case event.ActiveUsers:
		if users, ok := decodePayload[[]model.ActiveUser](m.logger, f.Event, f.Data); ok {
			m.presence.replace(*users)
			m.registry.Emit(f.Event, *users)
		}

	default:
		// Unknown events pass through verbatim.
		m.registry.Emit(f.Event, f.Data)
	}
}

// decodePayload unmarshals a frame payload, logging and skipping bad frames.
func decodePayload[T any](logger *slog.Logger, eventName string, raw json.RawMessage) (*T, bool) {
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		logger.Warn("failed to decode gateway payload",
			"event", eventName,
			"error", err,
		)
		return nil, false
	}
	return &value, true
}
