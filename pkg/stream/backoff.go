package stream

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// backoffDelay returns min(base * 2^attempt, cap) for the given zero-based
// attempt number.
func backoffDelay(base, ceil time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 { // shift guard, the retry ceiling is far below this
		return ceil
	}
	d := base << uint(attempt)
	if d <= 0 || d > ceil {
		return ceil
	}
	return d
}

// StreamURL rewrites an http(s) backend base URL into the ws(s) stream
// endpoint for the given user and session.
func StreamURL(base, userID, sessionID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// already a stream scheme
	default:
		return "", fmt.Errorf("unsupported scheme %q in base url", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String() + "/ws/" + url.PathEscape(userID) + "/" + url.PathEscape(sessionID), nil
}
