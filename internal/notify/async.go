package notify

import (
	"context"
	"sync"
	"time"

	"sealed-auction/utils"
)

type queued struct {
	ctx     context.Context
	address string
	text    string
}

// Async hands notifications to background workers so Send never blocks.
// When the queue is full the notification is dropped and a warning logged.
// Thread-safety: all methods are safe for concurrent use.
type Async struct {
	next    Notifier
	queue   chan queued
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAsync starts workers goroutines draining a queue of size queueSize into next.
// Each delivery gets its own timeout, detached from the caller's cancellation.
func NewAsync(next Notifier, queueSize, workers int, timeout time.Duration) *Async {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	a := &Async{
		next:    next,
		queue:   make(chan queued, queueSize),
		timeout: timeout,
	}
	for i := 0; i < workers; i++ {
		a.wg.Add(1)
		go a.run()
	}
	return a
}

// Send enqueues the notification without waiting for delivery
func (a *Async) Send(ctx context.Context, address, text string) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		utils.Warn("notification dropped: notifier closed", map[string]any{"address": address})
		return
	}

	select {
	case a.queue <- queued{ctx: context.WithoutCancel(ctx), address: address, text: text}:
	default:
		utils.Warn("notification dropped: queue full", map[string]any{"address": address})
	}
}

// Close stops accepting notifications and waits until the queue is drained
// or ctx is done.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Async) run() {
	defer a.wg.Done()
	for msg := range a.queue {
		a.deliver(msg)
	}
}

func (a *Async) deliver(msg queued) {
	defer func() {
		if r := recover(); r != nil {
			utils.Error("notification panicked", map[string]any{"address": msg.address, "panic": r})
		}
	}()

	ctx := msg.ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	a.next.Send(ctx, msg.address, msg.text)
}
