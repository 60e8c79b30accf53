// Package stream maintains the duplex connection to the notification backend:
// it dials, identifies itself, normalizes inbound push frames and fans them
// out to subscribers, and supervises the socket with capped exponential
// backoff. Transport failures never surface to the caller; the stream is
// best-effort and degrades to "no live updates" once retries are exhausted.
package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/squidgyai/squidgy-notify/pkg/alert"
	"github.com/squidgyai/squidgy-notify/pkg/schemas"
)

// DefaultSession is used when Connect is given an empty session id.
const DefaultSession = "default"

const (
	defaultMaxAttempts = 5
	defaultBackoffBase = time.Second
	defaultBackoffCap  = 30 * time.Second
)

// Config defines the stream client.
type Config struct {
	// BaseURL is the collaborator backend root, e.g. "https://api.squidgy.ai".
	// Its scheme is rewritten to ws/wss for the stream endpoint.
	BaseURL string

	MaxAttempts int           // reconnect ceiling, default 5
	BackoffBase time.Duration // first reconnect delay, default 1s
	BackoffCap  time.Duration // reconnect delay ceiling, default 30s

	// Dialer overrides the websocket dialer, mainly for tests.
	Dialer *websocket.Dialer

	// Alerter receives every live notification after fan-out; nil disables
	// local alerting.
	Alerter alert.Alerter

	// OnReconnect runs after every successful automatic reconnect. Frames
	// sent by the server while the socket was down are lost from the live
	// path, so callers typically rehydrate history here.
	OnReconnect func()

	Logger *slog.Logger
}

type connState int

const (
	stateDisconnected connState = iota
	stateConnecting
	stateConnected
)

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

// Client owns one stream connection. Instances are independent: connection
// handle, attempt counter and subscriber set are all per-instance, so tests
// and multi-tenant embedders do not collide on shared state.
type Client struct {
	cfg      Config
	registry *Registry
	log      *slog.Logger

	mu       sync.Mutex
	state    connState
	conn     *websocket.Conn
	attempts int
	retry    *time.Timer
	gen      int // socket generation; bumped by Connect/Disconnect to cut stale callbacks loose
}

func NewClient(cfg Config) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if cfg.BackoffCap <= 0 {
		cfg.BackoffCap = defaultBackoffCap
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		cfg:      cfg,
		registry: NewRegistry(cfg.Logger),
		log:      cfg.Logger,
	}
}

// Subscribe registers a handler for live notifications and returns its
// unsubscribe closure.
func (c *Client) Subscribe(fn Handler) func() {
	return c.registry.Subscribe(fn)
}

// Connected reports whether a socket is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateConnected
}

// Connect opens the stream for userID. A no-op while a socket is already open
// or dialing. An empty sessionID becomes DefaultSession. The attempt counter
// restarts, so Connect also serves as the manual restart after retries were
// exhausted. A dial error is returned to the caller, but the backoff cycle
// keeps running in the background regardless.
func (c *Client) Connect(userID, sessionID string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if sessionID == "" {
		sessionID = DefaultSession
	}

	c.mu.Lock()
	if c.state != stateDisconnected {
		c.mu.Unlock()
		return nil
	}
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	c.gen++
	c.attempts = 0
	c.state = stateConnecting
	gen := c.gen
	c.mu.Unlock()

	return c.dial(userID, sessionID, gen, false)
}

// Disconnect cancels any pending reconnect, closes the live socket and resets
// the attempt counter. Safe to call repeatedly and before any Connect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.gen++
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = stateDisconnected
	c.attempts = 0
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
		c.log.Info("stream disconnected")
	}
}

// -----------------------------------------------------------------------------
// Socket lifecycle
// -----------------------------------------------------------------------------

func (c *Client) dial(userID, sessionID string, gen int, reconnect bool) error {
	target, err := StreamURL(c.cfg.BaseURL, userID, sessionID)
	if err != nil {
		c.mu.Lock()
		if gen == c.gen {
			c.state = stateDisconnected
		}
		c.mu.Unlock()
		return err
	}

	dialer := c.cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.Dial(target, nil)
	if err != nil {
		c.log.Warn("stream dial failed", slog.String("url", target), slog.Any("error", err))
		c.scheduleReconnect(userID, sessionID, gen)
		return fmt.Errorf("dial %s: %w", target, err)
	}

	ident := schemas.IdentityFrame{
		Type:      schemas.FrameConnection,
		UserID:    userID,
		SessionID: sessionID,
	}
	if err := conn.WriteJSON(ident); err != nil {
		_ = conn.Close()
		c.scheduleReconnect(userID, sessionID, gen)
		return fmt.Errorf("send identity frame: %w", err)
	}

	c.mu.Lock()
	if gen != c.gen {
		// Disconnect raced the dial; this socket is already unwanted.
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	c.state = stateConnected
	c.conn = conn
	c.attempts = 0
	c.mu.Unlock()

	c.log.Info("stream connected",
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
		slog.Bool("reconnect", reconnect),
	)

	go c.readLoop(conn, userID, sessionID, gen)
	if reconnect && c.cfg.OnReconnect != nil {
		c.cfg.OnReconnect()
	}
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn, userID, sessionID string, gen int) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway) {
				c.log.Warn("stream read failed", slog.Any("error", err))
			}
			_ = conn.Close()
			c.scheduleReconnect(userID, sessionID, gen)
			return
		}
		c.handleFrame(raw)
	}
}

// scheduleReconnect runs after every socket loss, whether the dial or an open
// connection failed. Retry scheduling lives here alone so an error followed by
// a close cannot double-book a timer.
func (c *Client) scheduleReconnect(userID, sessionID string, gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return // Disconnect or a newer Connect superseded this socket
	}
	c.state = stateDisconnected
	c.conn = nil

	if c.attempts >= c.cfg.MaxAttempts {
		c.log.Warn("reconnect attempts exhausted, stream stays down until Connect is called again",
			slog.Int("attempts", c.attempts))
		return
	}

	delay := backoffDelay(c.cfg.BackoffBase, c.cfg.BackoffCap, c.attempts)
	c.attempts++
	attempt := c.attempts
	c.log.Info("scheduling reconnect",
		slog.Int("attempt", attempt),
		slog.Duration("delay", delay),
	)

	c.retry = time.AfterFunc(delay, func() {
		c.mu.Lock()
		if gen != c.gen || c.state != stateDisconnected {
			c.mu.Unlock()
			return
		}
		c.retry = nil
		c.state = stateConnecting
		c.mu.Unlock()

		if err := c.dial(userID, sessionID, gen, true); err != nil {
			c.log.Warn("reconnect failed", slog.Int("attempt", attempt), slog.Any("error", err))
		}
	})
}

// -----------------------------------------------------------------------------
// Inbound frames
// -----------------------------------------------------------------------------

func (c *Client) handleFrame(raw []byte) {
	var frame schemas.PushFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.log.Warn("discarding malformed frame", slog.Any("error", err))
		return
	}

	switch frame.Type {
	case schemas.FrameNotification:
		if frame.Message == "" || frame.ContactID == "" {
			c.log.Warn("notification frame missing required fields",
				slog.String("notification_id", frame.NotificationID))
		}
		n := Normalize(frame)
		c.registry.Notify(n)
		if c.cfg.Alerter != nil {
			c.cfg.Alerter.Notify(n)
		}
	case schemas.FramePing:
		// liveness heartbeat, nothing to do
	default:
		c.log.Debug("ignoring frame", slog.String("type", frame.Type))
	}
}
