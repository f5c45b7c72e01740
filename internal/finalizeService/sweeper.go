package finalize

import (
	"context"
	"sync"
	"time"

	"sealed-auction/utils"
)

// Sweeper runs FinalizeService.Sweep on a fixed interval until stopped.
// It talks to request handlers only through the store.
type Sweeper struct {
	service  *FinalizeService
	interval time.Duration
	timeout  time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewSweeper creates a sweeper; each sweep is bounded by the interval so a
// slow store cannot stack sweeps up.
func NewSweeper(service *FinalizeService, interval time.Duration) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		service:  service,
		interval: interval,
		timeout:  interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Run starts the sweep loop in the background. The goroutine is tracked
// before Run returns, so a later Stop always waits for it.
//
//	sweeper.Run(ctx)
//	defer sweeper.Stop()
func (s *Sweeper) Run(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()
}

// Start sweeps immediately and then every interval. It blocks until ctx is
// canceled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()
	s.loop(ctx)
}

func (s *Sweeper) loop(ctx context.Context) {
	if s.ctx.Err() != nil {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	utils.Info("finalization sweeper started", map[string]any{"interval": s.interval.String()})

	s.runOnce(ctx)
	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			utils.Info("finalization sweeper stopping", map[string]any{"reason": "context canceled"})
			return
		case <-s.ctx.Done():
			utils.Info("finalization sweeper stopping", map[string]any{"reason": "stopped"})
			return
		}
	}
}

// Stop cancels the sweeper and waits for the running sweep to finish
func (s *Sweeper) Stop() {
	s.cancel()
	s.wg.Wait()
}

// runOnce performs a single sweep; a failing or panicking sweep never ends the loop
func (s *Sweeper) runOnce(parent context.Context) {
	defer func() {
		if r := recover(); r != nil {
			utils.Error("finalization sweep panicked", map[string]any{"panic": r})
		}
	}()

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	result, err := s.service.Sweep(ctx)
	if err != nil {
		utils.Error("finalization sweep failed", map[string]any{"error": err.Error()})
		return
	}
	if result.Scanned > 0 {
		utils.Info("finalization sweep completed", map[string]any{
			"scanned":   result.Scanned,
			"finalized": result.Finalized,
			"skipped":   result.Skipped,
			"failed":    result.Failed,
		})
	}
}
