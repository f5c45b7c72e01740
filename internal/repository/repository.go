package repository

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"sealed-auction/internal/biddingerrors"
	model "sealed-auction/internal/models"
)

// AuctionDB defines the storage interface for the auction system.
// It is the single source of truth shared by request handlers and the finalization sweep.
type AuctionDB interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, userID string) (model.User, error)
	// CreateItem fails with ErrItemExists while an uncompleted item holds the name
	CreateItem(ctx context.Context, item model.Item) error
	// GetItemByName prefers the uncompleted holder of name over a completed one
	GetItemByName(ctx context.Context, name string) (model.Item, error)
	ListActiveItems(ctx context.Context) ([]model.Item, error)
	ListExpiredItems(ctx context.Context, now time.Time) ([]model.Item, error)
	GetBidsByItem(ctx context.Context, itemID string) ([]model.Bid, error)
	// WithItem runs fn inside an exclusive atomic scope on one item. Writes made
	// through tx are committed only if fn returns nil. On the memory and MySQL
	// stores scopes on different items do not block each other; SQLite
	// serializes every scope behind its single writer.
	WithItem(ctx context.Context, itemID string, fn func(tx ItemTx) error) error
	DeleteItem(ctx context.Context, itemID string) error
}

// ItemTx is the view of one item inside its atomic scope
type ItemTx interface {
	// Item returns the state re-read at the start of the scope, including writes made so far
	Item() model.Item
	// RecordBid appends bid to the log and makes it the item's highest bid
	RecordBid(bid model.Bid) error
	MarkCompleted() error
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]model.User  // key: userID -> value: user
	items map[string]model.Item  // key: itemID -> value: item
	names map[string]string      // key: item name -> value: latest itemID
	bids  map[string][]model.Bid // key: itemID -> value: append-only bid log
	locks map[string]*sync.Mutex // key: itemID -> value: atomic scope lock
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users: make(map[string]model.User),
		items: make(map[string]model.Item),
		names: make(map[string]string),
		bids:  make(map[string][]model.Bid),
		locks: make(map[string]*sync.Mutex),
	}
}

// CreateUser inserts user iff no record exists for its ID
func (r *MemoryRepo) CreateUser(ctx context.Context, user model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.UserID]; ok {
		return fmt.Errorf("create user %s: %w", user.UserID, biddingerrors.ErrAlreadyRegistered)
	}
	r.users[user.UserID] = user
	return nil
}

// GetUser returns the user registered under userID
func (r *MemoryRepo) GetUser(ctx context.Context, userID string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, biddingerrors.ErrUserNotFound)
	}
	return user, nil
}

// CreateItem stores a new item; names are unique among uncompleted items
func (r *MemoryRepo) CreateItem(ctx context.Context, item model.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.names[item.Name]; ok && !r.items[id].Completed {
		return fmt.Errorf("create item %q: %w", item.Name, biddingerrors.ErrItemExists)
	}
	r.items[item.ItemID] = item
	r.names[item.Name] = item.ItemID
	return nil
}

// GetItemByName returns the item stored under name
func (r *MemoryRepo) GetItemByName(ctx context.Context, name string) (model.Item, error) {
	if err := ctx.Err(); err != nil {
		return model.Item{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.names[name]
	if !ok {
		return model.Item{}, fmt.Errorf("get item %q: %w", name, biddingerrors.ErrItemNotFound)
	}
	return r.items[id], nil
}

// ListActiveItems returns uncompleted items ordered by item ID (creation order)
func (r *MemoryRepo) ListActiveItems(ctx context.Context) ([]model.Item, error) {
	return r.filterItems(ctx, func(item model.Item) bool {
		return !item.Completed
	})
}

// ListExpiredItems returns uncompleted items whose end time is at or before now
func (r *MemoryRepo) ListExpiredItems(ctx context.Context, now time.Time) ([]model.Item, error) {
	return r.filterItems(ctx, func(item model.Item) bool {
		return !item.Completed && item.Expired(now)
	})
}

func (r *MemoryRepo) filterItems(ctx context.Context, keep func(model.Item) bool) ([]model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Item, 0, len(r.items))
	for _, item := range r.items {
		if keep(item) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })
	return items, nil
}

// GetBidsByItem returns the bid log of an item in acceptance order
func (r *MemoryRepo) GetBidsByItem(ctx context.Context, itemID string) ([]model.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.Bid{}, r.bids[itemID]...), nil
}

// WithItem runs fn under the item's own lock and commits its writes on success
func (r *MemoryRepo) WithItem(ctx context.Context, itemID string, fn func(tx ItemTx) error) error {
	lock := r.itemLock(itemID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	item, ok := r.items[itemID]
	r.mu.RUnlock()
	if !ok {
		r.dropLock(itemID, lock)
		return fmt.Errorf("with item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}

	tx := &memoryTx{item: item}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[itemID] = tx.item
	if len(tx.bids) > 0 {
		r.bids[itemID] = append(r.bids[itemID], tx.bids...)
	}
	return nil
}

// DeleteItem removes an item from active storage. Its bid log is kept.
func (r *MemoryRepo) DeleteItem(ctx context.Context, itemID string) error {
	lock := r.itemLock(itemID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok {
		return fmt.Errorf("delete item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	delete(r.items, itemID)
	if r.names[item.Name] == itemID {
		delete(r.names, item.Name)
	}
	delete(r.locks, itemID)
	return nil
}

func (r *MemoryRepo) itemLock(itemID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[itemID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[itemID] = lock
	}
	return lock
}

// dropLock forgets the lock of an item that no longer exists
func (r *MemoryRepo) dropLock(itemID string, lock *sync.Mutex) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locks[itemID] == lock {
		delete(r.locks, itemID)
	}
}

// memoryTx buffers writes until WithItem commits them
type memoryTx struct {
	item model.Item
	bids []model.Bid
}

func (tx *memoryTx) Item() model.Item {
	return tx.item
}

func (tx *memoryTx) RecordBid(bid model.Bid) error {
	if bid.ItemID != tx.item.ItemID {
		return fmt.Errorf("record bid for item %s in scope of %s: %w", bid.ItemID, tx.item.ItemID, biddingerrors.ErrInconsistent)
	}
	tx.bids = append(tx.bids, bid)
	tx.item.HighestBid = model.Leading(bid)
	return nil
}

func (tx *memoryTx) MarkCompleted() error {
	tx.item.Completed = true
	return nil
}
