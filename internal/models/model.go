package models

import "time"

// User represents a registered participant in the auction
type User struct {
	UserID       string    `json:"user_id"`
	Address      string    `json:"address"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Item represents an auction item with a sealed bid range
type Item struct {
	ItemID     string     `json:"item_id"`
	Name       string     `json:"name"`
	CreatorID  string     `json:"creator_id"`
	Low        int64      `json:"low"`
	High       int64      `json:"high"`
	EndTime    time.Time  `json:"end_time"`
	HighestBid HighestBid `json:"highest_bid"`
	Completed  bool       `json:"completed"`
	CreatedAt  time.Time  `json:"created_at"`
}

// InRange reports whether amount lies within the item's [Low, High] bound
func (i Item) InRange(amount int64) bool {
	return amount >= i.Low && amount <= i.High
}

// Expired reports whether the auction is closed at now
func (i Item) Expired(now time.Time) bool {
	return !now.Before(i.EndTime)
}

// Bid represents a user's bid on an item
type Bid struct {
	BidID     string    `json:"bid_id"`
	ItemID    string    `json:"item_id"`
	UserID    string    `json:"user_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
