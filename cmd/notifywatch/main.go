// notifywatch tails a user's Squidgy notification stream from a terminal. It
// hydrates history once over REST, then prints (and optionally desktop-alerts)
// every live push; after an automatic reconnect it rehydrates, since frames
// sent while the socket was down never reach the live path.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/squidgyai/squidgy-notify/pkg/alert"
	"github.com/squidgyai/squidgy-notify/pkg/rest"
	"github.com/squidgyai/squidgy-notify/pkg/schemas"
	"github.com/squidgyai/squidgy-notify/pkg/stream"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	baseURL := os.Getenv("SQUIDGY_BACKEND_URL")
	if baseURL == "" {
		logger.Error("SQUIDGY_BACKEND_URL environment variable required")
		os.Exit(1)
	}
	userID := os.Getenv("SQUIDGY_USER_ID")
	if userID == "" {
		logger.Error("SQUIDGY_USER_ID environment variable required")
		os.Exit(1)
	}
	sessionID := os.Getenv("SQUIDGY_SESSION_ID")
	if sessionID == "" {
		sessionID = uuid.NewString()
		logger.Info("No SQUIDGY_SESSION_ID set, generated one", "session_id", sessionID)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api, err := rest.New(rest.Config{BaseURL: baseURL, Logger: logger})
	if err != nil {
		logger.Error("Failed to build rest client", "error", err)
		os.Exit(1)
	}

	// Rehydration is the caller's job, so the retry policy lives here and not
	// in the rest client.
	hydrate := func() {
		err := retry.Do(
			func() error {
				res, err := api.List(ctx, userID, rest.ListOptions{Limit: 50})
				if err != nil {
					return err
				}
				logger.Info("History hydrated",
					"total", res.Total,
					"unread", res.UnreadCount,
					"fetched", len(res.Notifications))
				return nil
			},
			retry.Attempts(5),
			retry.Delay(time.Second),
			retry.MaxDelay(30*time.Second),
			retry.Context(ctx),
			retry.OnRetry(func(n uint, err error) {
				logger.Info("Retrying history fetch", "attempt", n, "error", err)
			}),
		)
		if err != nil {
			logger.Warn("History hydration failed", "error", err)
		}
	}

	var alerter alert.Alerter = alert.NewFallback(logger)
	if os.Getenv("SQUIDGY_DESKTOP_ALERTS") == "true" {
		alerter = alert.NewDesktop(logger, true)
	}

	client := stream.NewClient(stream.Config{
		BaseURL:     baseURL,
		Alerter:     alerter,
		OnReconnect: hydrate,
		Logger:      logger,
	})

	unsubscribe := client.Subscribe(func(n schemas.Notification) {
		logger.Info("Notification",
			"id", n.ID,
			"type", n.MessageType,
			"contact_id", n.ContactID,
			"sender", n.SenderName,
			"message", n.MessageContent)
	})
	defer unsubscribe()

	if err := client.Connect(userID, sessionID); err != nil {
		// Backoff keeps retrying in the background; hydration below still works.
		logger.Warn("Initial connect failed", "error", err)
	}
	hydrate()

	<-ctx.Done()
	client.Disconnect()
	logger.Info("Shutting down")
}
