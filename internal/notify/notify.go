// Package notify delivers text messages to chat addresses. Delivery is
// best-effort: failures are logged here and never reach the caller.
package notify

//go:generate mockgen -source=notify.go -destination=mock_notify.go -package=notify

import (
	"context"

	"sealed-auction/utils"
)

// Notifier sends text to a chat address
type Notifier interface {
	Send(ctx context.Context, address, text string)
}

// LogNotifier writes notifications to the log instead of a chat network
type LogNotifier struct{}

// Send logs the notification at info level
func (LogNotifier) Send(_ context.Context, address, text string) {
	utils.Info("notification", map[string]any{
		"address": address,
		"text":    text,
	})
}
