package registry

import (
	"context"
	"fmt"
	"strings"

	"sealed-auction/internal/biddingerrors"
	"sealed-auction/internal/clock"
	"sealed-auction/internal/models"
	"sealed-auction/internal/repository"
)

// RegistryService maps external chat identities to registered users
type RegistryService struct {
	repo  repository.AuctionDB
	clock clock.Clock
}

// NewRegistryService creates a new RegistryService instance
func NewRegistryService(repo repository.AuctionDB, clk clock.Clock) *RegistryService {
	return &RegistryService{
		repo:  repo,
		clock: clk,
	}
}

// Register creates the user record for identity. A second registration of the
// same identity fails with ErrAlreadyRegistered and leaves the first record untouched.
func (s *RegistryService) Register(ctx context.Context, identity, address string) (models.User, error) {
	identity = strings.TrimSpace(identity)
	address = strings.TrimSpace(address)
	if identity == "" || address == "" {
		return models.User{}, fmt.Errorf("service: %w - missing identity or address", biddingerrors.ErrValidation)
	}

	user := models.User{
		UserID:       identity,
		Address:      address,
		RegisteredAt: s.clock.Now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("service: failed to register user %s: %w", identity, err)
	}
	return user, nil
}

// Lookup returns the registered user, or false when identity is unknown
func (s *RegistryService) Lookup(ctx context.Context, identity string) (models.User, bool, error) {
	user, err := s.repo.GetUser(ctx, identity)
	if err != nil {
		if biddingerrors.KindOf(err) == biddingerrors.KindNotFound {
			return models.User{}, false, nil
		}
		return models.User{}, false, fmt.Errorf("service: failed to look up user %s: %w", identity, err)
	}
	return user, true, nil
}

// RequireRegistered returns the user or ErrNotRegistered
func (s *RegistryService) RequireRegistered(ctx context.Context, identity string) (models.User, error) {
	user, ok, err := s.Lookup(ctx, identity)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, fmt.Errorf("service: user %s: %w", identity, biddingerrors.ErrNotRegistered)
	}
	return user, nil
}
