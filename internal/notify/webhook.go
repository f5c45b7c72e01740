package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sealed-auction/utils"
)

// WebhookNotifier POSTs {"address","text"} JSON to the chat gateway
type WebhookNotifier struct {
	url    string
	client *http.Client
}

type webhookPayload struct {
	Address string `json:"address"`
	Text    string `json:"text"`
}

// NewWebhookNotifier creates a notifier posting to url with a per-request timeout
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Send delivers the message and logs any failure
func (w *WebhookNotifier) Send(ctx context.Context, address, text string) {
	if err := w.Deliver(ctx, address, text); err != nil {
		utils.Error("notification delivery failed", map[string]any{
			"address": address,
			"error":   err.Error(),
		})
	}
}

// Deliver performs one POST and reports the outcome
func (w *WebhookNotifier) Deliver(ctx context.Context, address, text string) error {
	body, err := json.Marshal(webhookPayload{Address: address, Text: text})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post notification: unexpected status %d", resp.StatusCode)
	}
	return nil
}
