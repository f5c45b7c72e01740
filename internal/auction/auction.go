package auction

import (
	"context"

	bidding "sealed-auction/internal/biddingService"
	"sealed-auction/internal/clock"
	finalize "sealed-auction/internal/finalizeService"
	items "sealed-auction/internal/itemService"
	"sealed-auction/internal/models"
	"sealed-auction/internal/notify"
	registry "sealed-auction/internal/registryService"
	"sealed-auction/internal/repository"
)

// API is the command surface consumed by the HTTP and chat transports
type API interface {
	Register(ctx context.Context, identity, address string) (models.User, error)
	CreateItem(ctx context.Context, creatorID, name string, low, high int64, durationMinutes int) (models.Item, error)
	PlaceBid(ctx context.Context, itemName, bidderID string, amount int64) (models.Bid, error)
	CurrentBid(ctx context.Context, itemName string) (models.Item, error)
	ListActive(ctx context.Context) ([]models.Item, error)
	BidsForItem(ctx context.Context, itemName string) ([]models.Bid, error)
}

// Service composes the auction services over one store
type Service struct {
	Registry *registry.RegistryService
	Items    *items.ItemService
	Bidding  *bidding.BiddingService
	Finalize *finalize.FinalizeService
}

var _ API = (*Service)(nil)

// NewService wires the registry, item, bidding and finalize services
func NewService(repo repository.AuctionDB, notifier notify.Notifier, clk clock.Clock, sweepWorkers int) *Service {
	reg := registry.NewRegistryService(repo, clk)
	itemSvc := items.NewItemService(repo, reg, clk)
	return &Service{
		Registry: reg,
		Items:    itemSvc,
		Bidding:  bidding.NewBiddingService(repo, reg, notifier, clk),
		Finalize: finalize.NewFinalizeService(repo, itemSvc, reg, notifier, clk, sweepWorkers),
	}
}

func (s *Service) Register(ctx context.Context, identity, address string) (models.User, error) {
	return s.Registry.Register(ctx, identity, address)
}

func (s *Service) CreateItem(ctx context.Context, creatorID, name string, low, high int64, durationMinutes int) (models.Item, error) {
	return s.Items.CreateItem(ctx, creatorID, name, low, high, durationMinutes)
}

func (s *Service) PlaceBid(ctx context.Context, itemName, bidderID string, amount int64) (models.Bid, error) {
	return s.Bidding.PlaceBid(ctx, itemName, bidderID, amount)
}

func (s *Service) CurrentBid(ctx context.Context, itemName string) (models.Item, error) {
	return s.Bidding.CurrentBid(ctx, itemName)
}

func (s *Service) ListActive(ctx context.Context) ([]models.Item, error) {
	return s.Items.ListActive(ctx)
}

func (s *Service) BidsForItem(ctx context.Context, itemName string) ([]models.Bid, error) {
	return s.Bidding.BidsForItem(ctx, itemName)
}
