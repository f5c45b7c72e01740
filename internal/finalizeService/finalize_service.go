package finalize

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"sealed-auction/internal/biddingerrors"
	"sealed-auction/internal/clock"
	items "sealed-auction/internal/itemService"
	"sealed-auction/internal/models"
	"sealed-auction/internal/notify"
	registry "sealed-auction/internal/registryService"
	"sealed-auction/internal/repository"
	"sealed-auction/utils"
)

// SweepResult summarises one sweep
type SweepResult struct {
	Scanned   int
	Finalized int
	Skipped   int
	Failed    int
}

// FinalizeService closes expired auctions exactly once and notifies winner and creator
type FinalizeService struct {
	repo     repository.AuctionDB
	items    *items.ItemService
	registry *registry.RegistryService
	notifier notify.Notifier
	clock    clock.Clock
	workers  int
}

// NewFinalizeService creates a FinalizeService finalizing at most workers items concurrently
func NewFinalizeService(repo repository.AuctionDB, itemSvc *items.ItemService, reg *registry.RegistryService, notifier notify.Notifier, clk clock.Clock, workers int) *FinalizeService {
	if workers < 1 {
		workers = 1
	}
	return &FinalizeService{
		repo:     repo,
		items:    itemSvc,
		registry: reg,
		notifier: notifier,
		clock:    clk,
		workers:  workers,
	}
}

// Sweep finalizes every expired, uncompleted item. Per-item failures are
// logged and counted; the item stays eligible for the next sweep.
func (s *FinalizeService) Sweep(ctx context.Context) (SweepResult, error) {
	expired, err := s.items.FindExpiredUncompleted(ctx, s.clock.Now())
	if err != nil {
		return SweepResult{}, fmt.Errorf("sweep: %w", err)
	}

	var finalized, skipped, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, item := range expired {
		item := item
		g.Go(func() error {
			done, err := s.finalizeSafely(ctx, item)
			switch {
			case err != nil:
				failed.Add(1)
				utils.Warn("item finalization failed", map[string]any{
					"item_id": item.ItemID,
					"name":    item.Name,
					"error":   err.Error(),
				})
			case done:
				finalized.Add(1)
			default:
				skipped.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return SweepResult{
		Scanned:   len(expired),
		Finalized: int(finalized.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
	}, nil
}

func (s *FinalizeService) finalizeSafely(ctx context.Context, item models.Item) (done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			done, err = false, fmt.Errorf("finalize item %s panicked: %v", item.ItemID, r)
		}
	}()
	return s.Finalize(ctx, item)
}

// Finalize closes one auction. It reports false without error when there is
// nothing to do: the auction is still running, already completed, or already gone.
//
// The completed flag is claimed inside the item's atomic scope before anyone is
// notified, so concurrent sweeps and in-flight bids serialize against it.
func (s *FinalizeService) Finalize(ctx context.Context, item models.Item) (bool, error) {
	now := s.clock.Now()
	if item.Completed || !item.Expired(now) {
		return false, nil
	}

	var (
		closed  models.Item
		claimed bool
	)
	err := s.repo.WithItem(ctx, item.ItemID, func(tx repository.ItemTx) error {
		current := tx.Item()
		if current.Completed || !current.Expired(now) {
			return nil
		}
		if err := tx.MarkCompleted(); err != nil {
			return err
		}
		closed = tx.Item()
		claimed = true
		return nil
	})
	if err != nil {
		if errors.Is(err, biddingerrors.ErrItemNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("finalize item %s: %w", item.ItemID, err)
	}
	if !claimed {
		return false, nil
	}

	s.notifyParties(ctx, closed)

	// A completed item that fails to delete is inert: sweeps skip it.
	if err := s.repo.DeleteItem(ctx, closed.ItemID); err != nil {
		utils.Warn("completed item not deleted", map[string]any{
			"item_id": closed.ItemID,
			"error":   err.Error(),
		})
	}

	utils.Info("auction finalized", map[string]any{
		"item_id": closed.ItemID,
		"name":    closed.Name,
		"amount":  closed.HighestBid.Amount(),
	})
	return true, nil
}

func (s *FinalizeService) notifyParties(ctx context.Context, item models.Item) {
	if bid, ok := item.HighestBid.Get(); ok {
		if winner, found := s.lookup(ctx, item, bid.UserID, "winner"); found {
			s.notifier.Send(ctx, winner.Address, notify.WonText(item.Name, bid.Amount))
		}
	}
	if creator, found := s.lookup(ctx, item, item.CreatorID, "creator"); found {
		s.notifier.Send(ctx, creator.Address, notify.ClosedText(item.Name, item.HighestBid.Amount()))
	}
}

// lookup resolves a party of the auction, logging a missing record as an inconsistency
func (s *FinalizeService) lookup(ctx context.Context, item models.Item, userID, role string) (models.User, bool) {
	user, found, err := s.registry.Lookup(ctx, userID)
	if err != nil {
		utils.Warn("finalization notification skipped", map[string]any{
			"item_id": item.ItemID,
			"role":    role,
			"user_id": userID,
			"error":   err.Error(),
		})
		return models.User{}, false
	}
	if !found {
		utils.Error(role+" record missing", map[string]any{
			"item_id": item.ItemID,
			"user_id": userID,
			"error":   biddingerrors.ErrInconsistent.Error(),
		})
		return models.User{}, false
	}
	return user, true
}
