package event

// Inbound server events re-emitted through the registry under the same name.
const (
	NewMessage     = "new_message"
	MessageRead    = "message_read"
	RoomJoined     = "room_joined"
	RoomLeft       = "room_left"
	UserTyping     = "user_typing"
	UserOnline     = "user_online"
	UserOffline    = "user_offline"
	UserJoinedRoom = "user_joined_room"
	ActiveUsers    = "active_users"
)

// Connection-lifecycle pseudo-events emitted by the gateway itself.
const (
	Disconnected = "disconnected"
	Error        = "error"
)

// Outbound command names written to the gateway.
const (
	CmdJoinRoom         = "join_room"
	CmdLeaveRoom        = "leave_room"
	CmdSendMessage      = "send_message"
	CmdMarkMessageRead  = "mark_message_read"
	CmdTyping           = "typing"
	CmdGetActiveUsers   = "get_active_users"
	CmdSendInvitation   = "send_chat_invitation"
	CmdAcceptInvitation = "accept_chat_invitation"
	CmdRejectInvitation = "reject_chat_invitation"
)
