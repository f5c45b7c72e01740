package notify

import (
	"context"
	"sync"
)

// Notification is one recorded message
type Notification struct {
	Address string
	Text    string
}

// Recorder keeps notifications in memory. Used by tests and dry runs.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

// Send records the notification
func (r *Recorder) Send(_ context.Context, address, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Notification{Address: address, Text: text})
}

// Sent returns a copy of everything recorded so far
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

// To returns the texts recorded for address
func (r *Recorder) To(address string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.sent {
		if n.Address == address {
			out = append(out, n.Text)
		}
	}
	return out
}
