package handler

import (
	"net/http"

	"sealed-auction/internal/auction"
	"sealed-auction/internal/commands"
	"sealed-auction/services/bidding/helpers"
	"sealed-auction/utils"

	"github.com/gin-gonic/gin"
)

type AuctionHandler struct {
	service auction.API
	chat    *commands.Handler
}

func NewAuctionHandler(service auction.API) *AuctionHandler {
	return &AuctionHandler{
		service: service,
		chat:    commands.NewHandler(service),
	}
}

// RegisterUserHandler handles POST /users
func (h *AuctionHandler) RegisterUserHandler(c *gin.Context) {
	var req helpers.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterUserHandler", err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.UserID, req.Address)
	if err != nil {
		helpers.RespondError(c, "RegisterUserHandler", err, map[string]any{"user_id": req.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewUserResponse(user), "user registered successfully")
	helpers.LogSuccess("RegisterUserHandler", "user registered successfully", map[string]any{
		"user_id": user.UserID,
	})
}

// CreateItemHandler handles POST /items
func (h *AuctionHandler) CreateItemHandler(c *gin.Context) {
	var req helpers.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateItemHandler", err)
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), req.CreatorID, req.Name, req.Low, req.High, req.DurationMinutes)
	if err != nil {
		helpers.RespondError(c, "CreateItemHandler", err, map[string]any{
			"creator_id": req.CreatorID,
			"name":       req.Name,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewItemResponse(item), "item created successfully")
	helpers.LogSuccess("CreateItemHandler", "item created successfully", map[string]any{
		"item_id":    item.ItemID,
		"name":       item.Name,
		"creator_id": item.CreatorID,
		"end_time":   item.EndTime,
	})
}

// ListItemsHandler handles GET /items
func (h *AuctionHandler) ListItemsHandler(c *gin.Context) {
	items, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "ListItemsHandler", err, nil)
		return
	}

	resp := make([]helpers.ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, helpers.NewItemResponse(item))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "items retrieved successfully")
	helpers.LogSuccess("ListItemsHandler", "items retrieved successfully", map[string]any{
		"items_count": len(resp),
	})
}

// GetItemHandler handles GET /items/:name
func (h *AuctionHandler) GetItemHandler(c *gin.Context) {
	name := c.Param("name")
	item, err := h.service.CurrentBid(c.Request.Context(), name)
	if err != nil {
		helpers.RespondError(c, "GetItemHandler", err, map[string]any{"name": name})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewItemResponse(item), "item retrieved successfully")
}

// PlaceBidHandler handles POST /items/:name/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	name := c.Param("name")
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), name, req.UserID, req.Amount)
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err, map[string]any{
			"name":    name,
			"user_id": req.UserID,
			"amount":  req.Amount,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewBidResponse(bid), "bid recorded successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":  bid.BidID,
		"item_id": bid.ItemID,
		"user_id": bid.UserID,
		"amount":  bid.Amount,
	})
}

// GetBidsByItemHandler handles GET /items/:name/bids
func (h *AuctionHandler) GetBidsByItemHandler(c *gin.Context) {
	name := c.Param("name")
	bids, err := h.service.BidsForItem(c.Request.Context(), name)
	if err != nil {
		helpers.RespondError(c, "GetBidsByItemHandler", err, map[string]any{"name": name})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, bid := range bids {
		resp = append(resp, helpers.NewBidResponse(bid))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByItemHandler", "bids retrieved successfully", map[string]any{
		"name":  name,
		"count": len(resp),
	})
}

// ChatMessageHandler handles POST /chat/messages. Command outcomes, including
// rejected bids, are replies and always answer 200.
func (h *AuctionHandler) ChatMessageHandler(c *gin.Context) {
	var req helpers.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ChatMessageHandler", err)
		return
	}

	address := req.Address
	if address == "" {
		address = req.UserID
	}
	reply := h.chat.Handle(c.Request.Context(), commands.Message{
		UserID:  req.UserID,
		Address: address,
		Text:    req.Text,
	})

	c.JSON(http.StatusOK, helpers.ChatReply{Reply: reply})
	utils.Debug("ChatMessageHandler: command handled", map[string]any{"user_id": req.UserID})
}
