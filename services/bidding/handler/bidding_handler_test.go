package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sealed-auction/internal/auction"
	"sealed-auction/internal/biddingerrors"
	model "sealed-auction/internal/models"
	"sealed-auction/services/bidding/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestRouter(api auction.API) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAuctionHandler(api)

	router := gin.New()
	router.POST("/users", handler.RegisterUserHandler)
	router.POST("/items", handler.CreateItemHandler)
	router.GET("/items", handler.ListItemsHandler)
	router.GET("/items/:name", handler.GetItemHandler)
	router.POST("/items/:name/bids", handler.PlaceBidHandler)
	router.GET("/items/:name/bids", handler.GetBidsByItemHandler)
	router.POST("/chat/messages", handler.ChatMessageHandler)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reqBody []byte
	var err error
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

// Test PlaceBidHandler
func TestPlaceBidHandler(t *testing.T) {
	leading := model.Leading(model.Bid{BidID: "b0", UserID: "bob", Amount: 50})

	tests := []struct {
		name           string
		itemName       string
		requestBody    any
		mockSetup      func(api *auction.MockAPI)
		expectedStatus int
		expectedMsg    string
		expectedKind   string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_valid_bid",
			itemName:    "Vase",
			requestBody: helpers.PlaceBidRequest{UserID: "alice", Amount: 60},
			mockSetup: func(api *auction.MockAPI) {
				api.EXPECT().
					PlaceBid(gomock.Any(), "Vase", "alice", int64(60)).
					Return(model.Bid{
						BidID:     uuid.NewString(),
						ItemID:    "01HX0000000000000000000001",
						UserID:    "alice",
						Amount:    60,
						CreatedAt: now,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid recorded successfully",
			validateData: func(t *testing.T, data map[string]any) {
				_, parseErr := uuid.Parse(data["bid_id"].(string))
				require.NoError(t, parseErr, "BidID should be a valid UUID")
				require.Equal(t, "alice", data["user_id"])
				require.Equal(t, 60.0, data["amount"])
				require.Equal(t, "2026-05-01T10:00:00Z", data["created_at"])
			},
		},
		{
			name:           "invalid_json",
			itemName:       "Vase",
			requestBody:    `{invalid json}`,
			mockSetup:      func(api *auction.MockAPI) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
			expectedKind:   "validation",
		},
		{
			name:           "missing_user_id",
			itemName:       "Vase",
			requestBody:    helpers.PlaceBidRequest{Amount: 50},
			mockSetup:      func(api *auction.MockAPI) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "negative_amount",
			itemName:       "Vase",
			requestBody:    helpers.PlaceBidRequest{UserID: "alice", Amount: -10},
			mockSetup:      func(api *auction.MockAPI) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "fractional_amount",
			itemName:       "Vase",
			requestBody:    `{"user_id":"alice","amount":10.5}`,
			mockSetup:      func(api *auction.MockAPI) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "out_of_range",
			itemName:    "Vase",
			requestBody: helpers.PlaceBidRequest{UserID: "alice", Amount: 500},
			mockSetup: func(api *auction.MockAPI) {
				api.EXPECT().PlaceBid(gomock.Any(), "Vase", "alice", int64(500)).
					Return(model.Bid{}, fmt.Errorf("service: %w", &biddingerrors.RangeError{Low: 10, High: 100}))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "between 10 and 100",
			expectedKind:   "validation",
		},
		{
			name:        "not_registered",
			itemName:    "Vase",
			requestBody: helpers.PlaceBidRequest{UserID: "mallory", Amount: 60},
			mockSetup: func(api *auction.MockAPI) {
				api.EXPECT().PlaceBid(gomock.Any(), "Vase", "mallory", int64(60)).
					Return(model.Bid{}, fmt.Errorf("service: user mallory: %w", biddingerrors.ErrNotRegistered))
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "user is not registered",
			expectedKind:   "not_registered",
		},
		{
			name:        "item_not_found",
			itemName:    "Lamp",
			requestBody: helpers.PlaceBidRequest{UserID: "alice", Amount: 60},
			mockSetup: func(api *auction.MockAPI) {
				api.EXPECT().PlaceBid(gomock.Any(), "Lamp", "alice", int64(60)).
					Return(model.Bid{}, fmt.Errorf("service: failed to get item: %w", biddingerrors.ErrItemNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "item not found",
			expectedKind:   "not_found",
		},
		{
			name:        "not_high_enough",
			itemName:    "Vase",
			requestBody: helpers.PlaceBidRequest{UserID: "alice", Amount: 40},
			mockSetup: func(api *auction.MockAPI) {
				api.EXPECT().PlaceBid(gomock.Any(), "Vase", "alice", int64(40)).
					Return(model.Bid{}, fmt.Errorf("service: %w", &biddingerrors.BidConflictError{Reason: biddingerrors.ErrNotHighEnough, Highest: leading}))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "current highest bid is 50",
			expectedKind:   "conflict",
		},
		{
			name:        "auction_ended",
			itemName:    "Vase",
			requestBody: helpers.PlaceBidRequest{UserID: "alice", Amount: 60},
			mockSetup: func(api *auction.MockAPI) {
				api.EXPECT().PlaceBid(gomock.Any(), "Vase", "alice", int64(60)).
					Return(model.Bid{}, fmt.Errorf("service: %w", &biddingerrors.BidConflictError{Reason: biddingerrors.ErrAuctionEnded, Highest: leading}))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "auction has ended",
			expectedKind:   "conflict",
		},
		{
			name:        "store_failure",
			itemName:    "Vase",
			requestBody: helpers.PlaceBidRequest{UserID: "alice", Amount: 60},
			mockSetup: func(api *auction.MockAPI) {
				api.EXPECT().PlaceBid(gomock.Any(), "Vase", "alice", int64(60)).
					Return(model.Bid{}, errors.New("database is locked"))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    "please try again later",
			expectedKind:   "transient",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			api := auction.NewMockAPI(ctrl)
			tc.mockSetup(api)
			router := newTestRouter(api)

			w, resp := doRequest(t, router, http.MethodPost, "/items/"+tc.itemName+"/bids", tc.requestBody)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if tc.expectedKind != "" {
				require.Equal(t, tc.expectedKind, resp["error"])
			}
			require.NotContains(t, w.Body.String(), "database is locked")

			if tc.validateData != nil && w.Code == http.StatusCreated {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test RegisterUserHandler
func TestRegisterUserHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(api *auction.MockAPI)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "success",
			requestBody: helpers.RegisterUserRequest{UserID: "alice", Address: "chat-alice"},
			mockSetup: func(api *auction.MockAPI) {
				api.EXPECT().Register(gomock.Any(), "alice", "chat-alice").
					Return(model.User{UserID: "alice", Address: "chat-alice", RegisteredAt: now}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "user registered successfully",
		},
		{
			name:           "missing_address",
			requestBody:    helpers.RegisterUserRequest{UserID: "alice"},
			mockSetup:      func(api *auction.MockAPI) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "already_registered",
			requestBody: helpers.RegisterUserRequest{UserID: "alice", Address: "chat-alice"},
			mockSetup: func(api *auction.MockAPI) {
				api.EXPECT().Register(gomock.Any(), "alice", "chat-alice").
					Return(model.User{}, fmt.Errorf("service: %w", biddingerrors.ErrAlreadyRegistered))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "user already registered",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			api := auction.NewMockAPI(ctrl)
			tc.mockSetup(api)

			w, resp := doRequest(t, newTestRouter(api), http.MethodPost, "/users", tc.requestBody)
			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}

// Test CreateItemHandler
func TestCreateItemHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(api *auction.MockAPI)
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success",
			requestBody: helpers.CreateItemRequest{CreatorID: "alice", Name: "Vase", Low: 10, High: 100, DurationMinutes: 5},
			mockSetup: func(api *auction.MockAPI) {
				api.EXPECT().CreateItem(gomock.Any(), "alice", "Vase", int64(10), int64(100), 5).
					Return(model.Item{
						ItemID:    "01HX0000000000000000000001",
						Name:      "Vase",
						CreatorID: "alice",
						Low:       10,
						High:      100,
						EndTime:   now.Add(5 * time.Minute),
						CreatedAt: now,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "item created successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "Vase", data["name"])
				require.Equal(t, "2026-05-01T10:05:00Z", data["end_time"])
				require.Nil(t, data["highest_bid"])
			},
		},
		{
			name:        "invalid_range",
			requestBody: helpers.CreateItemRequest{CreatorID: "alice", Name: "Vase", Low: 100, High: 10, DurationMinutes: 5},
			mockSetup: func(api *auction.MockAPI) {
				api.EXPECT().CreateItem(gomock.Any(), "alice", "Vase", int64(100), int64(10), 5).
					Return(model.Item{}, fmt.Errorf("service: %w - low must be below high", biddingerrors.ErrValidation))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request details",
		},
		{
			name:        "duplicate_name",
			requestBody: helpers.CreateItemRequest{CreatorID: "alice", Name: "Vase", Low: 10, High: 100, DurationMinutes: 5},
			mockSetup: func(api *auction.MockAPI) {
				api.EXPECT().CreateItem(gomock.Any(), "alice", "Vase", int64(10), int64(100), 5).
					Return(model.Item{}, fmt.Errorf("service: %w", biddingerrors.ErrItemExists))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "already exists",
		},
		{
			name:           "missing_name",
			requestBody:    helpers.CreateItemRequest{CreatorID: "alice", Low: 10, High: 100, DurationMinutes: 5},
			mockSetup:      func(api *auction.MockAPI) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			api := auction.NewMockAPI(ctrl)
			tc.mockSetup(api)

			w, resp := doRequest(t, newTestRouter(api), http.MethodPost, "/items", tc.requestBody)
			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if tc.validateData != nil {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test the read endpoints
func TestQueryHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := auction.NewMockAPI(ctrl)
	router := newTestRouter(api)

	first := model.Bid{BidID: "b1", ItemID: "i1", UserID: "bob", Amount: 50, CreatedAt: now}
	second := model.Bid{BidID: "b2", ItemID: "i1", UserID: "carol", Amount: 60, CreatedAt: now}
	vase := model.Item{ItemID: "i1", Name: "Vase", CreatorID: "alice", Low: 10, High: 100, EndTime: now.Add(time.Minute), HighestBid: model.Leading(second)}
	lamp := model.Item{ItemID: "i2", Name: "Lamp", CreatorID: "alice", Low: 5, High: 50, EndTime: now.Add(time.Hour)}

	t.Run("list_items", func(t *testing.T) {
		api.EXPECT().ListActive(gomock.Any()).Return([]model.Item{vase, lamp}, nil)

		w, resp := doRequest(t, router, http.MethodGet, "/items", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].([]any)
		require.Len(t, data, 2)
		require.Equal(t, "Vase", data[0].(map[string]any)["name"])
		require.Nil(t, data[1].(map[string]any)["highest_bid"])
	})

	t.Run("list_items_empty", func(t *testing.T) {
		api.EXPECT().ListActive(gomock.Any()).Return(nil, nil)

		w, resp := doRequest(t, router, http.MethodGet, "/items", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, []any{}, resp["data"])
	})

	t.Run("get_item", func(t *testing.T) {
		api.EXPECT().CurrentBid(gomock.Any(), "Vase").Return(vase, nil)

		w, resp := doRequest(t, router, http.MethodGet, "/items/Vase", nil)
		require.Equal(t, http.StatusOK, w.Code)
		highest := resp["data"].(map[string]any)["highest_bid"].(map[string]any)
		require.Equal(t, 60.0, highest["amount"])
		require.Equal(t, "carol", highest["user_id"])
	})

	t.Run("get_item_not_found", func(t *testing.T) {
		api.EXPECT().CurrentBid(gomock.Any(), "Drum").Return(model.Item{}, biddingerrors.ErrItemNotFound)

		w, _ := doRequest(t, router, http.MethodGet, "/items/Drum", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bids_for_item", func(t *testing.T) {
		api.EXPECT().BidsForItem(gomock.Any(), "Vase").Return([]model.Bid{first, second}, nil)

		w, resp := doRequest(t, router, http.MethodGet, "/items/Vase/bids", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].([]any)
		require.Len(t, data, 2)
		require.Equal(t, 50.0, data[0].(map[string]any)["amount"])
		require.Equal(t, 60.0, data[1].(map[string]any)["amount"])
	})

	t.Run("bids_store_failure", func(t *testing.T) {
		api.EXPECT().BidsForItem(gomock.Any(), "Vase").Return(nil, errors.New("connection reset"))

		w, resp := doRequest(t, router, http.MethodGet, "/items/Vase/bids", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.Equal(t, "transient", resp["error"])
	})
}

// Test ChatMessageHandler
func TestChatMessageHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := auction.NewMockAPI(ctrl)
	router := newTestRouter(api)

	t.Run("bid_reply", func(t *testing.T) {
		api.EXPECT().PlaceBid(gomock.Any(), "Blue Vase", "bob", int64(60)).
			Return(model.Bid{BidID: "b1", UserID: "bob", Amount: 60, CreatedAt: now}, nil)

		w, resp := doRequest(t, router, http.MethodPost, "/chat/messages",
			helpers.ChatMessageRequest{UserID: "bob", Address: "chat-bob", Text: "/bid Blue Vase 60"})
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "Your bid of 60 on Blue Vase is now the highest bid.", resp["reply"])
	})

	t.Run("address_defaults_to_user", func(t *testing.T) {
		api.EXPECT().Register(gomock.Any(), "bob", "bob").Return(model.User{UserID: "bob", Address: "bob"}, nil)

		w, resp := doRequest(t, router, http.MethodPost, "/chat/messages",
			helpers.ChatMessageRequest{UserID: "bob", Text: "/register"})
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, resp["reply"], "You are registered")
	})

	t.Run("rejection_is_still_a_reply", func(t *testing.T) {
		api.EXPECT().PlaceBid(gomock.Any(), "Vase", "bob", int64(5)).
			Return(model.Bid{}, &biddingerrors.RangeError{Low: 10, High: 100})

		w, resp := doRequest(t, router, http.MethodPost, "/chat/messages",
			helpers.ChatMessageRequest{UserID: "bob", Address: "chat-bob", Text: "/bid Vase 5"})
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "Bids on Vase must be between 10 and 100.", resp["reply"])
	})

	t.Run("missing_text", func(t *testing.T) {
		w, _ := doRequest(t, router, http.MethodPost, "/chat/messages", helpers.ChatMessageRequest{UserID: "bob"})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
