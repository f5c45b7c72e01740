package cli

import (
	"context"
	"fmt"

	"sealed-auction/internal/auction"
	"sealed-auction/internal/clock"
	"sealed-auction/internal/config"
	"sealed-auction/internal/notify"
	"sealed-auction/internal/repository"
	"sealed-auction/internal/repository/sqlstore"
	"sealed-auction/utils"
)

// app is the assembled service and the resources it owns
type app struct {
	service  *auction.Service
	notifier *notify.Async
	closers  []func() error
}

// openStore returns the configured store and its close function
func openStore(cfg config.Config) (repository.AuctionDB, func() error, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		store, err := sqlstore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.StoreMySQL:
		store, err := sqlstore.OpenMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.StoreMemory:
		return repository.NewMemoryRepo(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// newNotifier posts to the webhook when one is configured and logs otherwise.
// Delivery always goes through the async queue.
func newNotifier(cfg config.Config) *notify.Async {
	var next notify.Notifier = notify.LogNotifier{}
	if cfg.NotifyWebhookURL != "" {
		next = notify.NewWebhookNotifier(cfg.NotifyWebhookURL, cfg.NotifyTimeout)
	}
	return notify.NewAsync(next, cfg.NotifyQueue, cfg.NotifyWorkers, cfg.NotifyTimeout)
}

func newApp(cfg config.Config) (*app, error) {
	repo, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	notifier := newNotifier(cfg)

	utils.Info("auction service assembled", map[string]any{
		"store":          cfg.Store,
		"sweep_workers":  cfg.SweepWorkers,
		"notify_webhook": cfg.NotifyWebhookURL != "",
	})
	return &app{
		service:  auction.NewService(repo, notifier, clock.System{}, cfg.SweepWorkers),
		notifier: notifier,
		closers:  []func() error{closeStore},
	}, nil
}

// close drains pending notifications and then releases the store
func (a *app) close(ctx context.Context) {
	if err := a.notifier.Close(ctx); err != nil {
		utils.Warn("pending notifications dropped on shutdown", map[string]any{"error": err.Error()})
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			utils.Warn("failed to close resource", map[string]any{"error": err.Error()})
		}
	}
}
