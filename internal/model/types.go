package model

import (
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Profiles
// -----------------------------------------------------------------------------

// Profile is a denormalized user snapshot embedded in messages and invitations.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Bio       string    `json:"bio,omitempty"`
}

// -----------------------------------------------------------------------------
// Messages
// -----------------------------------------------------------------------------

// MessageType tags the content of a message.
type MessageType string

const (
	MessageText  MessageType = "TEXT"
	MessageImage MessageType = "IMAGE"
	MessageVideo MessageType = "VIDEO"
)

// MessageStatus is the delivery state of a message.
type MessageStatus string

const (
	StatusSent      MessageStatus = "SENT"
	StatusDelivered MessageStatus = "DELIVERED"
	StatusRead      MessageStatus = "READ"
)

// Message is a chat message between two users. Messages are created by the
// server on send; the client mutates them only to apply read receipts.
type Message struct {
	ID          uuid.UUID     `json:"id"`
	Content     string        `json:"content"`
	Type        MessageType   `json:"type"`
	Status      MessageStatus `json:"status"`
	SenderID    uuid.UUID     `json:"senderId"`
	RecipientID uuid.UUID     `json:"recipientId"`
	Sender      Profile       `json:"sender"`
	Recipient   Profile       `json:"recipient"`
	ReadAt      *time.Time    `json:"readAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// MarkRead applies a read receipt to the message.
func (m *Message) MarkRead(at time.Time) {
	m.Status = StatusRead
	m.ReadAt = &at
}

// -----------------------------------------------------------------------------
// Chat Invitations
// -----------------------------------------------------------------------------

// InvitationStatus is the lifecycle state of a chat invitation.
// ACCEPTED and REJECTED are terminal.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationRejected InvitationStatus = "REJECTED"
)

// ChatInvitation is a proposal from one user to open a chat room with another.
type ChatInvitation struct {
	ID          uuid.UUID        `json:"id"`
	SenderID    uuid.UUID        `json:"senderId"`
	RecipientID uuid.UUID        `json:"recipientId"`
	Message     string           `json:"message"`
	Status      InvitationStatus `json:"status"`
	Sender      Profile          `json:"sender"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Terminal reports whether the invitation has reached a final state.
func (i *ChatInvitation) Terminal() bool {
	return i.Status == InvitationAccepted || i.Status == InvitationRejected
}

// -----------------------------------------------------------------------------
// Transient gateway records
// -----------------------------------------------------------------------------

// TypingEvent is a transient typing signal. It is never persisted; the gateway
// expires it client-side after a short window.
type TypingEvent struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

// ActiveUser is a presence record derived from user_online / user_offline.
type ActiveUser struct {
	UserID      string    `json:"userId"`
	Profile     Profile   `json:"profile"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// ReadReceipt is the payload of a message_read event.
type ReadReceipt struct {
	MessageID uuid.UUID `json:"messageId"`
	ReaderID  string    `json:"readerId"`
	ReadAt    time.Time `json:"readAt"`
}

// RoomEvent is the payload of room_joined / room_left / user_joined_room.
type RoomEvent struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}
