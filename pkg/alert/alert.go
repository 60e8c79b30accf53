// Package alert hosts the local alerting side effects raised for every live
// notification. Alerting is a non-critical enhancement: implementations are
// best-effort and never propagate failures back into the delivery path.
package alert

import "github.com/squidgyai/squidgy-notify/pkg/schemas"

// Alerter raises a host-level alert for one live notification. The stream
// client calls it synchronously from its read loop, so implementations should
// return quickly and must not panic.
type Alerter interface {
	Notify(n schemas.Notification)
}
