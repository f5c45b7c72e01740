package helpers

import (
	"time"

	model "sealed-auction/internal/models"
)

// Request/Response DTOs
type RegisterUserRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type CreateItemRequest struct {
	CreatorID       string `json:"creator_id" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Low             int64  `json:"low" binding:"required"`
	High            int64  `json:"high" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
}

type PlaceBidRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

type ChatMessageRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Address string `json:"address"`
	Text    string `json:"text" binding:"required"`
}

type ChatReply struct {
	Reply string `json:"reply"`
}

type UserResponse struct {
	UserID       string `json:"user_id"`
	Address      string `json:"address"`
	RegisteredAt string `json:"registered_at"`
}

type BidResponse struct {
	BidID     string `json:"bid_id"`
	ItemID    string `json:"item_id"`
	UserID    string `json:"user_id"`
	Amount    int64  `json:"amount"`
	CreatedAt string `json:"created_at"`
}

type ItemResponse struct {
	ItemID     string       `json:"item_id"`
	Name       string       `json:"name"`
	CreatorID  string       `json:"creator_id"`
	Low        int64        `json:"low"`
	High       int64        `json:"high"`
	EndTime    string       `json:"end_time"`
	HighestBid *BidResponse `json:"highest_bid"`
}

func NewUserResponse(user model.User) UserResponse {
	return UserResponse{
		UserID:       user.UserID,
		Address:      user.Address,
		RegisteredAt: formatTime(user.RegisteredAt),
	}
}

func NewBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		ItemID:    bid.ItemID,
		UserID:    bid.UserID,
		Amount:    bid.Amount,
		CreatedAt: formatTime(bid.CreatedAt),
	}
}

// NewItemResponse renders an item; highest_bid is null until the first bid
func NewItemResponse(item model.Item) ItemResponse {
	resp := ItemResponse{
		ItemID:    item.ItemID,
		Name:      item.Name,
		CreatorID: item.CreatorID,
		Low:       item.Low,
		High:      item.High,
		EndTime:   formatTime(item.EndTime),
	}
	if bid, ok := item.HighestBid.Get(); ok {
		b := NewBidResponse(bid)
		resp.HighestBid = &b
	}
	return resp
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
