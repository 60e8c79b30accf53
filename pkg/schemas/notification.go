package schemas

import "time"

// MessageTypeSMS is the default channel tag when an inbound frame carries none.
// The field is free-form; the backend also emits "Facebook", "Instagram",
// "WhatsApp" and friends.
const MessageTypeSMS = "SMS"

// Notification is the canonical in-memory record. The backend stays
// authoritative for persisted state (read status, timestamps); a live push is
// normalized into this shape and held only as long as a subscriber keeps it.
type Notification struct {
	// Backend-assigned identifier, stable for the record's lifetime. Never
	// fabricated on the client: a frame without one still normalizes, but
	// such a record cannot be marked read by reference.
	ID string `json:"id"`

	LocationID string `json:"location_id"` // CRM location, "" when the frame carries none
	ContactID  string `json:"contact_id"`  // CRM contact

	MessageContent string `json:"message_content"`
	MessageType    string `json:"message_type"` // channel/origin tag, defaults to MessageTypeSMS

	SenderName  string `json:"sender_name,omitempty"`
	SenderPhone string `json:"sender_phone,omitempty"`
	SenderEmail string `json:"sender_email,omitempty"`

	ConversationID string `json:"conversation_id,omitempty"` // thread grouping

	// Enrichment lifted from the frame's nested metadata object; each is
	// independently optional.
	ContactType       string `json:"contact_type,omitempty"`
	MessageAttachment string `json:"message_attachment,omitempty"`
	Tag               string `json:"tag,omitempty"`
	AgentMessage      string `json:"agent_message,omitempty"`

	ReadStatus      bool `json:"read_status"`
	RespondedStatus bool `json:"responded_status"`

	// Opaque pass-through, no required shape.
	Metadata map[string]any `json:"metadata,omitempty"`

	// For live pushes both carry the frame's single timestamp; the push
	// protocol does not distinguish creation from update time.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListResult is the backend's paginated history response.
type ListResult struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	UnreadCount   int            `json:"unread_count"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
}
