package alert

import (
	"log/slog"

	"github.com/gen2brain/beeep"

	"github.com/squidgyai/squidgy-notify/pkg/schemas"
)

const (
	cueFrequency = 800.0 // Hz
	cueDuration  = 500   // ms, with the platform's own fade-out

	fallbackTitle = "New Message"
)

// Desktop raises an OS notification plus a short audible cue. Hosts without a
// notification daemon or audio stack just produce warnings in the log.
type Desktop struct {
	log   *slog.Logger
	sound bool
}

func NewDesktop(logger *slog.Logger, sound bool) *Desktop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Desktop{log: logger, sound: sound}
}

func (d *Desktop) Notify(n schemas.Notification) {
	title := n.SenderName
	if title == "" {
		title = fallbackTitle
	}

	if err := beeep.Notify(title, n.MessageContent, ""); err != nil {
		d.log.Warn("desktop notification failed", slog.String("id", n.ID), slog.Any("error", err))
	}

	if !d.sound {
		return
	}
	if err := beeep.Beep(cueFrequency, cueDuration); err != nil {
		d.log.Warn("audible cue failed", slog.String("id", n.ID), slog.Any("error", err))
	}
}
