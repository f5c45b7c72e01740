package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sealed-auction/internal/biddingerrors"
	model "sealed-auction/internal/models"
	"sealed-auction/internal/repository"
)

var _ repository.AuctionDB = (*Store)(nil)

const selectItem = `
	SELECT i.item_id, i.name, i.creator_id, i.low, i.high, i.end_time, i.completed, i.created_at,
	       b.bid_id, b.user_id, b.amount, b.created_at
	FROM items i
	LEFT JOIN bids b ON b.bid_id = i.highest_bid_id`

type rowScanner interface {
	Scan(dest ...any) error
}

// CreateUser inserts a user; the primary key makes concurrent registrations of one identity race-free.
func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, address, registered_at) VALUES (?, ?, ?)`,
		user.UserID, user.Address, toMillis(user.RegisteredAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user %s: %w", user.UserID, biddingerrors.ErrAlreadyRegistered)
		}
		return fmt.Errorf("create user %s: %w", user.UserID, err)
	}
	return nil
}

// GetUser returns the user registered under userID.
func (s *Store) GetUser(ctx context.Context, userID string) (model.User, error) {
	var (
		user         model.User
		registeredAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, address, registered_at FROM users WHERE user_id = ?`, userID,
	).Scan(&user.UserID, &user.Address, &registeredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("get user %s: %w", userID, biddingerrors.ErrUserNotFound)
		}
		return model.User{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	user.RegisteredAt = fromMillis(registeredAt)
	return user, nil
}

// CreateItem inserts a new item with no highest bid. active_name carries the
// unique key and is cleared on completion, so only uncompleted items hold a name.
func (s *Store) CreateItem(ctx context.Context, item model.Item) error {
	var activeName sql.NullString
	if !item.Completed {
		activeName = sql.NullString{String: item.Name, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (item_id, name, active_name, creator_id, low, high, end_time, highest_bid_id, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)`,
		item.ItemID, item.Name, activeName, item.CreatorID, item.Low, item.High,
		toMillis(item.EndTime), boolToInt(item.Completed), toMillis(item.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create item %q: %w", item.Name, biddingerrors.ErrItemExists)
		}
		return fmt.Errorf("create item %q: %w", item.Name, err)
	}
	return nil
}

// GetItemByName returns the uncompleted item called name, falling back to the
// latest completed one.
func (s *Store) GetItemByName(ctx context.Context, name string) (model.Item, error) {
	item, err := scanItem(s.db.QueryRowContext(ctx,
		selectItem+` WHERE i.name = ? ORDER BY i.completed, i.item_id DESC LIMIT 1`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, fmt.Errorf("get item %q: %w", name, biddingerrors.ErrItemNotFound)
		}
		return model.Item{}, fmt.Errorf("get item %q: %w", name, err)
	}
	return item, nil
}

// ListActiveItems returns uncompleted items ordered by item ID (creation order).
func (s *Store) ListActiveItems(ctx context.Context) ([]model.Item, error) {
	return s.queryItems(ctx, selectItem+` WHERE i.completed = 0 ORDER BY i.item_id`)
}

// ListExpiredItems returns uncompleted items whose end time is at or before now.
func (s *Store) ListExpiredItems(ctx context.Context, now time.Time) ([]model.Item, error) {
	return s.queryItems(ctx, selectItem+` WHERE i.completed = 0 AND i.end_time <= ? ORDER BY i.item_id`, toMillis(now))
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// GetBidsByItem returns the bid log of an item. Accepted amounts strictly
// increase, so amount order is acceptance order.
func (s *Store) GetBidsByItem(ctx context.Context, itemID string) ([]model.Bid, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT bid_id, item_id, user_id, amount, created_at FROM bids WHERE item_id = ? ORDER BY amount`, itemID)
	if err != nil {
		return nil, fmt.Errorf("get bids for item %s: %w", itemID, err)
	}
	defer rows.Close()

	bids := []model.Bid{}
	for rows.Next() {
		var (
			bid       model.Bid
			createdAt int64
		)
		if err := rows.Scan(&bid.BidID, &bid.ItemID, &bid.UserID, &bid.Amount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		bid.CreatedAt = fromMillis(createdAt)
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bids: %w", err)
	}
	return bids, nil
}

// WithItem opens a transaction, re-reads the item (row-locked on MySQL) and
// commits fn's writes only if fn succeeds.
func (s *Store) WithItem(ctx context.Context, itemID string, fn func(tx repository.ItemTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin item scope %s: %w", itemID, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	item, err := scanItem(tx.QueryRowContext(ctx, selectItem+` WHERE i.item_id = ?`+s.dialect.lockClause, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("with item %s: %w", itemID, biddingerrors.ErrItemNotFound)
		}
		return fmt.Errorf("with item %s: %w", itemID, err)
	}

	if err := fn(&itemTx{ctx: ctx, tx: tx, item: item}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit item scope %s: %w", itemID, err)
	}
	committed = true
	return nil
}

// DeleteItem removes an item row. Its bids stay in the log.
func (s *Store) DeleteItem(ctx context.Context, itemID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE item_id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}
	if n == 0 {
		return fmt.Errorf("delete item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	return nil
}

func scanItem(row rowScanner) (model.Item, error) {
	var (
		item                          model.Item
		endTime, createdAt, completed int64
		bidID, bidUser                sql.NullString
		bidAmount, bidCreatedAt       sql.NullInt64
	)
	err := row.Scan(
		&item.ItemID, &item.Name, &item.CreatorID, &item.Low, &item.High, &endTime, &completed, &createdAt,
		&bidID, &bidUser, &bidAmount, &bidCreatedAt,
	)
	if err != nil {
		return model.Item{}, err
	}
	item.EndTime = fromMillis(endTime)
	item.CreatedAt = fromMillis(createdAt)
	item.Completed = completed != 0
	if bidID.Valid {
		item.HighestBid = model.Leading(model.Bid{
			BidID:     bidID.String,
			ItemID:    item.ItemID,
			UserID:    bidUser.String,
			Amount:    bidAmount.Int64,
			CreatedAt: fromMillis(bidCreatedAt.Int64),
		})
	}
	return item, nil
}

// itemTx writes through the open transaction and mirrors the writes on its snapshot.
type itemTx struct {
	ctx  context.Context
	tx   *sql.Tx
	item model.Item
}

func (t *itemTx) Item() model.Item {
	return t.item
}

func (t *itemTx) RecordBid(bid model.Bid) error {
	if bid.ItemID != t.item.ItemID {
		return fmt.Errorf("record bid for item %s in scope of %s: %w", bid.ItemID, t.item.ItemID, biddingerrors.ErrInconsistent)
	}
	if _, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO bids (bid_id, item_id, user_id, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		bid.BidID, bid.ItemID, bid.UserID, bid.Amount, toMillis(bid.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert bid %s: %w", bid.BidID, err)
	}
	if _, err := t.tx.ExecContext(t.ctx,
		`UPDATE items SET highest_bid_id = ? WHERE item_id = ?`, bid.BidID, bid.ItemID,
	); err != nil {
		return fmt.Errorf("set highest bid on %s: %w", bid.ItemID, err)
	}
	t.item.HighestBid = model.Leading(bid)
	return nil
}

func (t *itemTx) MarkCompleted() error {
	if _, err := t.tx.ExecContext(t.ctx,
		`UPDATE items SET completed = 1, active_name = NULL WHERE item_id = ?`, t.item.ItemID,
	); err != nil {
		return fmt.Errorf("mark item %s completed: %w", t.item.ItemID, err)
	}
	t.item.Completed = true
	return nil
}
