package stream

import (
	"time"

	"github.com/squidgyai/squidgy-notify/pkg/schemas"
)

// Normalize converts one inbound push frame into the canonical record. It
// never fails: absent fields default (message type to "SMS", location to ""),
// a missing message or contact id becomes an empty string, and a timestamp
// that does not parse as RFC 3339 leaves the zero time. Live pushes are
// always presented as unread and unresponded regardless of anything the frame
// claims; the backend's list endpoint is the source of truth for read state.
func Normalize(f schemas.PushFrame) schemas.Notification {
	n := schemas.Notification{
		ID:             f.NotificationID,
		LocationID:     f.LocationID,
		ContactID:      f.ContactID,
		MessageContent: f.Message,
		MessageType:    f.MessageType,
		SenderName:     f.SenderName,
		SenderPhone:    f.SenderPhone,
		SenderEmail:    f.SenderEmail,
		ConversationID: f.ConversationID,
		Metadata:       f.Metadata,
	}

	if n.MessageType == "" {
		n.MessageType = schemas.MessageTypeSMS
	}

	if f.Metadata != nil {
		n.ContactType = metaString(f.Metadata, "contact_type")
		n.MessageAttachment = metaString(f.Metadata, "user_message_attachment")
		n.Tag = metaString(f.Metadata, "tag")
		n.AgentMessage = metaString(f.Metadata, "agent_message")
	}

	if ts, err := time.Parse(time.RFC3339, f.Timestamp); err == nil {
		n.CreatedAt = ts
		n.UpdatedAt = ts
	}

	return n
}

func metaString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
