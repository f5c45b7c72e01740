package bidding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sealed-auction/internal/biddingerrors"
	"sealed-auction/internal/clock"
	"sealed-auction/internal/models"
	"sealed-auction/internal/notify"
	registry "sealed-auction/internal/registryService"
	"sealed-auction/internal/repository"
	"sealed-auction/utils"
)

// BiddingService validates bids and applies them atomically per item
type BiddingService struct {
	repo     repository.AuctionDB
	registry *registry.RegistryService
	notifier notify.Notifier
	clock    clock.Clock
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, reg *registry.RegistryService, notifier notify.Notifier, clk clock.Clock) *BiddingService {
	return &BiddingService{
		repo:     repo,
		registry: reg,
		notifier: notifier,
		clock:    clk,
	}
}

// PlaceBid validates and records a user's bid for the item called itemName.
//
// The checks before the atomic scope only fail fast; the re-read inside
// WithItem is authoritative. A single clock reading is used for both.
func (s *BiddingService) PlaceBid(ctx context.Context, itemName, bidderID string, amount int64) (models.Bid, error) {
	itemName = strings.TrimSpace(itemName)

	item, err := s.repo.GetItemByName(ctx, itemName)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get item %q: %w", itemName, err)
	}
	if _, err := s.registry.RequireRegistered(ctx, bidderID); err != nil {
		return models.Bid{}, err
	}
	if !item.InRange(amount) {
		return models.Bid{}, fmt.Errorf("service: %w", &biddingerrors.RangeError{Low: item.Low, High: item.High})
	}

	now := s.clock.Now()
	if item.Completed || item.Expired(now) {
		return models.Bid{}, fmt.Errorf("service: %w", &biddingerrors.BidConflictError{Reason: biddingerrors.ErrAuctionEnded, Highest: item.HighestBid})
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		ItemID:    item.ItemID,
		UserID:    bidderID,
		Amount:    amount,
		CreatedAt: now,
	}

	var previous models.HighestBid
	err = s.repo.WithItem(ctx, item.ItemID, func(tx repository.ItemTx) error {
		current := tx.Item()
		if current.Completed || current.Expired(now) {
			return &biddingerrors.BidConflictError{Reason: biddingerrors.ErrAuctionEnded, Highest: current.HighestBid}
		}
		if !current.HighestBid.Beats(amount) {
			return &biddingerrors.BidConflictError{Reason: biddingerrors.ErrNotHighEnough, Highest: current.HighestBid}
		}
		previous = current.HighestBid
		return tx.RecordBid(bid)
	})
	if err != nil {
		// the item can only disappear by being finalized
		if errors.Is(err, biddingerrors.ErrItemNotFound) {
			err = &biddingerrors.BidConflictError{Reason: biddingerrors.ErrAuctionEnded}
		}
		return models.Bid{}, fmt.Errorf("service: failed to place bid on %q by %s: %w", itemName, bidderID, err)
	}

	s.notifyOutbid(ctx, previous, bid, item.Name)
	return bid, nil
}

// notifyOutbid tells the previous leader about the new bid. Best-effort.
func (s *BiddingService) notifyOutbid(ctx context.Context, previous models.HighestBid, bid models.Bid, itemName string) {
	prev, ok := previous.Get()
	if !ok || prev.UserID == bid.UserID {
		return
	}
	user, found, err := s.registry.Lookup(ctx, prev.UserID)
	if err != nil {
		utils.Warn("outbid notification skipped", map[string]any{
			"item_id": bid.ItemID,
			"user_id": prev.UserID,
			"error":   err.Error(),
		})
		return
	}
	if !found {
		utils.Error("outbid notification skipped: bidder record missing", map[string]any{
			"item_id": bid.ItemID,
			"user_id": prev.UserID,
			"error":   biddingerrors.ErrInconsistent.Error(),
		})
		return
	}
	s.notifier.Send(ctx, user.Address, notify.OutbidText(itemName, bid.Amount))
}

// CurrentBid returns the active item with its current highest bid
func (s *BiddingService) CurrentBid(ctx context.Context, itemName string) (models.Item, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return models.Item{}, fmt.Errorf("service: %w - empty item name", biddingerrors.ErrValidation)
	}

	item, err := s.repo.GetItemByName(ctx, itemName)
	if err != nil {
		return models.Item{}, fmt.Errorf("service: failed to get item %q: %w", itemName, err)
	}
	if item.Completed {
		return models.Item{}, fmt.Errorf("service: item %q: %w", itemName, biddingerrors.ErrItemNotFound)
	}
	return item, nil
}

// BidsForItem returns the accepted bids of an active item in acceptance order
func (s *BiddingService) BidsForItem(ctx context.Context, itemName string) ([]models.Bid, error) {
	item, err := s.CurrentBid(ctx, itemName)
	if err != nil {
		return nil, err
	}

	bids, err := s.repo.GetBidsByItem(ctx, item.ItemID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for item %q: %w", itemName, err)
	}
	return bids, nil
}
