package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, Logger: discardLogger()})
	require.NoError(t, err)
	return c
}

func TestListBuildsRequestAndDecodes(t *testing.T) {
	var gotPath, gotQuery string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"notifications": [
				{"id": "n1", "contact_id": "c1", "message_content": "hi",
				 "message_type": "SMS", "read_status": true,
				 "created_at": "2024-01-01T00:00:00Z", "updated_at": "2024-01-02T00:00:00Z"}
			],
			"total": 12, "unread_count": 3, "limit": 5, "offset": 10
		}`))
	})

	res, err := c.List(context.Background(), "u1", ListOptions{Limit: 5, Offset: 10, UnreadOnly: true})
	require.NoError(t, err)

	assert.Equal(t, "/api/notifications/u1", gotPath)
	assert.Equal(t, "limit=5&offset=10&unread_only=true", gotQuery)

	assert.Equal(t, 12, res.Total)
	assert.Equal(t, 3, res.UnreadCount)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, "n1", res.Notifications[0].ID)
	assert.True(t, res.Notifications[0].ReadStatus)
}

func TestListOmitsZeroOptions(t *testing.T) {
	var gotQuery string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"notifications": [], "total": 0, "unread_count": 0, "limit": 20, "offset": 0}`))
	})

	_, err := c.List(context.Background(), "u1", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "", gotQuery)
}

func TestListErrorCarriesStatusText(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database exploded", http.StatusInternalServerError)
	})

	_, err := c.List(context.Background(), "u1", ListOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Internal Server Error")
	assert.Contains(t, err.Error(), "database exploded")

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}

func TestMarkRead(t *testing.T) {
	var gotMethod, gotPath string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.MarkRead(context.Background(), "n1"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/notifications/n1/read", gotPath)
}

func TestMarkAllRead(t *testing.T) {
	var gotMethod, gotPath string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.MarkAllRead(context.Background(), "u1"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/notifications/user/u1/read-all", gotPath)
}

func TestMarkReadPropagatesError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such notification", http.StatusNotFound)
	})

	err := c.MarkRead(context.Background(), "missing")
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestListHonorsContext(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.List(ctx, "u1", ListOptions{})
	assert.Error(t, err)
}
