package stream

import (
	"log/slog"
	"sync"

	"github.com/squidgyai/squidgy-notify/pkg/schemas"
)

// Handler receives one normalized notification.
type Handler func(schemas.Notification)

// Registry fans each notification out to every subscribed handler, in
// registration order. There is no deduplication: a frame delivered twice is
// fanned out twice, and reconciling that is the subscriber's business.
type Registry struct {
	log *slog.Logger

	mu   sync.Mutex
	next int
	subs []subscription
}

type subscription struct {
	id int
	fn Handler
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{log: logger}
}

// Subscribe registers fn and returns its unsubscribe closure. Calling the
// closure more than once is harmless.
func (r *Registry) Subscribe(fn Handler) func() {
	r.mu.Lock()
	id := r.next
	r.next++
	r.subs = append(r.subs, subscription{id: id, fn: fn})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

// Notify invokes every currently-registered handler with n. A panicking
// handler is logged and does not stop the rest.
func (r *Registry) Notify(n schemas.Notification) {
	r.mu.Lock()
	subs := make([]subscription, len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, s := range subs {
		r.invoke(s, n)
	}
}

func (r *Registry) invoke(s subscription, n schemas.Notification) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("subscriber panicked",
				slog.Int("subscriber", s.id),
				slog.String("notification_id", n.ID),
				slog.Any("panic", rec),
			)
		}
	}()
	s.fn(n)
}
