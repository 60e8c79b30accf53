package alert

import (
	"log/slog"

	"github.com/squidgyai/squidgy-notify/pkg/schemas"
)

// Fallback logs instead of raising host alerts; used on headless hosts.
type Fallback struct {
	log *slog.Logger
}

func NewFallback(logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{log: logger}
}

func (f *Fallback) Notify(n schemas.Notification) {
	f.log.Info("notification",
		slog.String("id", n.ID),
		slog.String("message_type", n.MessageType),
		slog.String("sender", n.SenderName),
		slog.String("message", n.MessageContent),
	)
}

// Nop discards alerts entirely.
type Nop struct{}

func (Nop) Notify(schemas.Notification) {}
