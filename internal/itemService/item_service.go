package items

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"sealed-auction/internal/biddingerrors"
	"sealed-auction/internal/clock"
	"sealed-auction/internal/models"
	registry "sealed-auction/internal/registryService"
	"sealed-auction/internal/repository"
	"sealed-auction/utils"
)

// ItemService manages auction items
type ItemService struct {
	repo     repository.AuctionDB
	registry *registry.RegistryService
	clock    clock.Clock
}

// NewItemService creates a new ItemService instance
func NewItemService(repo repository.AuctionDB, reg *registry.RegistryService, clk clock.Clock) *ItemService {
	return &ItemService{
		repo:     repo,
		registry: reg,
		clock:    clk,
	}
}

// CreateItem validates the request and persists a new item ending durationMinutes from now
func (s *ItemService) CreateItem(ctx context.Context, creatorID, name string, low, high int64, durationMinutes int) (models.Item, error) {
	if _, err := s.registry.RequireRegistered(ctx, creatorID); err != nil {
		return models.Item{}, err
	}
	name = strings.TrimSpace(name)
	if err := validateItem(name, low, high, durationMinutes); err != nil {
		return models.Item{}, err
	}

	now := s.clock.Now()
	item := models.Item{
		ItemID:     utils.GenerateItemID(now),
		Name:       name,
		CreatorID:  creatorID,
		Low:        low,
		High:       high,
		EndTime:    now.Add(time.Duration(durationMinutes) * time.Minute),
		HighestBid: models.NoBid(),
		CreatedAt:  now,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return models.Item{}, fmt.Errorf("service: failed to create item %q: %w", name, err)
	}
	return item, nil
}

// maxDurationMinutes keeps the end time within time.Duration range
const maxDurationMinutes = math.MaxInt64 / int64(time.Minute)

// validateItem checks the shape of an item creation request
func validateItem(name string, low, high int64, durationMinutes int) error {
	if name == "" {
		return fmt.Errorf("service: %w - missing item name", biddingerrors.ErrValidation)
	}
	if low <= 0 || high <= 0 {
		return fmt.Errorf("service: %w - bid bounds must be positive", biddingerrors.ErrValidation)
	}
	if low >= high {
		return fmt.Errorf("service: %w - low bound must be below high bound", biddingerrors.ErrValidation)
	}
	if durationMinutes <= 0 {
		return fmt.Errorf("service: %w - duration must be a positive number of minutes", biddingerrors.ErrValidation)
	}
	if int64(durationMinutes) > maxDurationMinutes {
		return fmt.Errorf("service: %w - duration exceeds %d minutes", biddingerrors.ErrValidation, maxDurationMinutes)
	}
	return nil
}

// FindByName returns the active item called name, or false
func (s *ItemService) FindByName(ctx context.Context, name string) (models.Item, bool, error) {
	item, err := s.repo.GetItemByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if biddingerrors.KindOf(err) == biddingerrors.KindNotFound {
			return models.Item{}, false, nil
		}
		return models.Item{}, false, fmt.Errorf("service: failed to get item %q: %w", name, err)
	}
	if item.Completed {
		return models.Item{}, false, nil
	}
	return item, true, nil
}

// ListActive returns all uncompleted items in creation order
func (s *ItemService) ListActive(ctx context.Context) ([]models.Item, error) {
	items, err := s.repo.ListActiveItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list items: %w", err)
	}
	return items, nil
}

// FindExpiredUncompleted returns items with EndTime <= now that are not completed
func (s *ItemService) FindExpiredUncompleted(ctx context.Context, now time.Time) ([]models.Item, error) {
	items, err := s.repo.ListExpiredItems(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list expired items: %w", err)
	}
	return items, nil
}
