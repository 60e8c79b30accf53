package schemas

// Frame type discriminators on the stream endpoint.
const (
	FrameConnection   = "connection"
	FrameNotification = "notification"
	FramePing         = "ping"
)

// IdentityFrame is sent once by the client right after the socket opens.
type IdentityFrame struct {
	Type      string `json:"type"` // always FrameConnection
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

// PushFrame is one server→client message on the stream endpoint. Only Type is
// guaranteed; everything else depends on the frame kind (a ping carries
// nothing further).
type PushFrame struct {
	Type           string `json:"type"`
	NotificationID string `json:"notification_id"`
	LocationID     string `json:"ghl_location_id"`
	ContactID      string `json:"ghl_contact_id"`
	Message        string `json:"message"`
	MessageType    string `json:"message_type"`
	SenderName     string `json:"sender_name"`
	SenderPhone    string `json:"sender_phone"`
	SenderEmail    string `json:"sender_email"`
	ConversationID string `json:"conversation_id"`

	// Known keys: contact_type, user_message_attachment, tag, agent_message.
	// Kept as a map so unknown keys survive into Notification.Metadata.
	Metadata map[string]any `json:"metadata"`

	Timestamp string `json:"timestamp"` // RFC 3339
}
