// Package rest is the request/response half of the notification client:
// paginated history retrieval and read-state mutations against the
// collaborator backend. Unlike the stream, failures here are the caller's
// problem: every non-2xx response comes back as an *HTTPError so the UI can
// tell the user whether a mutation actually took effect. The package retries
// nothing itself.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/squidgyai/squidgy-notify/pkg/schemas"
)

const defaultTimeout = 30 * time.Second

// HTTPError reports a non-2xx response from the backend.
type HTTPError struct {
	StatusCode int
	Status     string // e.g. "500 Internal Server Error"
	Body       string // first few KB of the response body
}

func (e *HTTPError) Error() string {
	if b := strings.TrimSpace(e.Body); b != "" {
		return fmt.Sprintf("backend returned %s: %s", e.Status, b)
	}
	return fmt.Sprintf("backend returned %s", e.Status)
}

// Config defines the retrieval/mutation client.
type Config struct {
	// BaseURL is the collaborator backend root, e.g. "https://api.squidgy.ai".
	BaseURL string

	// HTTPClient overrides the default client (30s timeout).
	HTTPClient *http.Client

	Logger *slog.Logger
}

type Client struct {
	base string
	hc   *http.Client
	log  *slog.Logger
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		base: strings.TrimSuffix(cfg.BaseURL, "/"),
		hc:   hc,
		log:  logger,
	}, nil
}

// ListOptions narrows a history query. Zero values are omitted from the
// request so the backend applies its own defaults.
type ListOptions struct {
	Limit      int
	Offset     int
	UnreadOnly bool
}

// List fetches the authoritative notification history for userID.
func (c *Client) List(ctx context.Context, userID string, opts ListOptions) (*schemas.ListResult, error) {
	target := c.base + "/api/notifications/" + url.PathEscape(userID)

	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.UnreadOnly {
		q.Set("unread_only", "true")
	}
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create list request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := checkStatus(resp); err != nil {
		c.log.Warn("list notifications failed",
			slog.String("user_id", userID),
			slog.Int("status", resp.StatusCode))
		return nil, err
	}

	var out schemas.ListResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	return &out, nil
}

// MarkRead marks one notification as read.
func (c *Client) MarkRead(ctx context.Context, notificationID string) error {
	target := c.base + "/api/notifications/" + url.PathEscape(notificationID) + "/read"
	return c.put(ctx, target, "mark read")
}

// MarkAllRead marks every notification for userID as read.
func (c *Client) MarkAllRead(ctx context.Context, userID string) error {
	target := c.base + "/api/notifications/user/" + url.PathEscape(userID) + "/read-all"
	return c.put(ctx, target, "mark all read")
}

func (c *Client) put(ctx context.Context, target, op string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := checkStatus(resp); err != nil {
		c.log.Warn(op+" failed", slog.Int("status", resp.StatusCode))
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
	}
}
