package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sealed-auction/internal/auction"
	"sealed-auction/internal/biddingerrors"
	"sealed-auction/internal/models"
	"sealed-auction/internal/notify"
	"sealed-auction/utils"
)

const (
	usageCreateItem = "Usage: /create_item <name> <low> <high> <minutes>"
	usageBid        = "Usage: /bid <name> <amount>"
	usageCurrentBid = "Usage: /current_bid <name>"

	replyUnknown   = "Unknown command. Send /help to see what I can do."
	replyTransient = "Something went wrong, please try again later."
	replyRegister  = "You need to /register first."

	endTimeLayout = "2006-01-02 15:04 MST"
)

const helpText = `Sealed-range auctions. Commands:
/register - receive auction updates in this chat
/create_item <name> <low> <high> <minutes> - start an auction accepting bids from low to high
/bid <name> <amount> - bid on an auction
/current_bid <name> - show the highest bid
/list_items - show running auctions
/help - show this message`

// Message is one incoming chat message
type Message struct {
	UserID  string `json:"user_id"`
	Address string `json:"address"`
	Text    string `json:"text"`
}

// Handler turns chat commands into auction operations and renders the replies
type Handler struct {
	api auction.API
}

// NewHandler creates a new Handler instance
func NewHandler(api auction.API) *Handler {
	return &Handler{api: api}
}

// Handle executes the command in msg and returns the reply text
func (h *Handler) Handle(ctx context.Context, msg Message) string {
	name, args := parse(msg.Text)

	switch name {
	case "/register":
		return h.register(ctx, msg)
	case "/create_item":
		return h.createItem(ctx, msg, args)
	case "/bid":
		return h.bid(ctx, msg, args)
	case "/current_bid":
		return h.currentBid(ctx, args)
	case "/list_items":
		return h.listItems(ctx)
	case "/help", "/start":
		return helpText
	default:
		return replyUnknown
	}
}

// parse splits text into a lower-cased command and its arguments.
// A trailing @botname on the command is dropped.
func parse(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	name, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(name), fields[1:]
}

func (h *Handler) register(ctx context.Context, msg Message) string {
	_, err := h.api.Register(ctx, msg.UserID, msg.Address)
	switch {
	case err == nil:
		return "You are registered. Auction updates will be sent to this chat."
	case errors.Is(err, biddingerrors.ErrAlreadyRegistered):
		return "You are already registered."
	case biddingerrors.KindOf(err) == biddingerrors.KindValidation:
		return "Registration needs a user id and a chat address."
	default:
		return h.failure("register", msg.UserID, err)
	}
}

func (h *Handler) createItem(ctx context.Context, msg Message, args []string) string {
	if len(args) < 4 {
		return usageCreateItem
	}
	n := len(args)
	name := strings.Join(args[:n-3], " ")
	low, lowErr := parseAmount(args[n-3])
	high, highErr := parseAmount(args[n-2])
	minutes, minErr := strconv.Atoi(args[n-1])
	if lowErr != nil || highErr != nil || minErr != nil {
		return "Bounds and duration must be whole numbers.\n" + usageCreateItem
	}

	item, err := h.api.CreateItem(ctx, msg.UserID, name, low, high, minutes)
	switch {
	case err == nil:
		return fmt.Sprintf("Auction for %s is open until %s. Bids from %s to %s are accepted.",
			item.Name, formatEnd(item.EndTime), notify.FormatAmount(item.Low), notify.FormatAmount(item.High))
	case errors.Is(err, biddingerrors.ErrItemExists):
		return fmt.Sprintf("An auction named %s is already running.", name)
	}

	switch biddingerrors.KindOf(err) {
	case biddingerrors.KindNotRegistered:
		return replyRegister
	case biddingerrors.KindValidation:
		return "Low must be positive and below high, and the duration must be at least one minute.\n" + usageCreateItem
	default:
		return h.failure("create_item", msg.UserID, err)
	}
}

func (h *Handler) bid(ctx context.Context, msg Message, args []string) string {
	if len(args) < 2 {
		return usageBid
	}
	n := len(args)
	name := strings.Join(args[:n-1], " ")
	amount, err := parseAmount(args[n-1])
	if err != nil {
		return "The amount must be a whole number.\n" + usageBid
	}

	bid, err := h.api.PlaceBid(ctx, name, msg.UserID, amount)
	if err == nil {
		return fmt.Sprintf("Your bid of %s on %s is now the highest bid.", notify.FormatAmount(bid.Amount), name)
	}

	var rangeErr *biddingerrors.RangeError
	var conflict *biddingerrors.BidConflictError
	switch {
	case errors.As(err, &rangeErr):
		return fmt.Sprintf("Bids on %s must be between %s and %s.", name, notify.FormatAmount(rangeErr.Low), notify.FormatAmount(rangeErr.High))
	case errors.As(err, &conflict) && errors.Is(err, biddingerrors.ErrNotHighEnough):
		return fmt.Sprintf("Your bid must be higher than the current highest bid of %s.", notify.FormatAmount(conflict.Highest.Amount()))
	case errors.As(err, &conflict) && errors.Is(err, biddingerrors.ErrAuctionEnded):
		return fmt.Sprintf("The auction for %s has ended.", name)
	}

	switch biddingerrors.KindOf(err) {
	case biddingerrors.KindNotRegistered:
		return replyRegister
	case biddingerrors.KindNotFound:
		return noSuchItem(name)
	case biddingerrors.KindValidation:
		return usageBid
	default:
		return h.failure("bid", msg.UserID, err)
	}
}

func (h *Handler) currentBid(ctx context.Context, args []string) string {
	name := strings.Join(args, " ")
	if name == "" {
		return usageCurrentBid
	}

	item, err := h.api.CurrentBid(ctx, name)
	if err != nil {
		if biddingerrors.KindOf(err) == biddingerrors.KindNotFound {
			return noSuchItem(name)
		}
		return h.failure("current_bid", "", err)
	}
	if bid, ok := item.HighestBid.Get(); ok {
		return fmt.Sprintf("The highest bid on %s is %s. The auction ends %s.", item.Name, notify.FormatAmount(bid.Amount), formatEnd(item.EndTime))
	}
	return fmt.Sprintf("There are no bids on %s yet. Bids from %s to %s are accepted until %s.",
		item.Name, notify.FormatAmount(item.Low), notify.FormatAmount(item.High), formatEnd(item.EndTime))
}

func (h *Handler) listItems(ctx context.Context) string {
	items, err := h.api.ListActive(ctx)
	if err != nil {
		return h.failure("list_items", "", err)
	}
	if len(items) == 0 {
		return "There are no running auctions."
	}

	var b strings.Builder
	b.WriteString("Running auctions:")
	for _, item := range items {
		b.WriteString("\n")
		b.WriteString(describe(item))
	}
	return b.String()
}

// failure logs an unexpected error and hides it behind the generic reply
func (h *Handler) failure(command, userID string, err error) string {
	utils.Error("chat command failed", map[string]any{
		"command": command,
		"user_id": userID,
		"kind":    biddingerrors.KindOf(err).String(),
		"error":   err.Error(),
	})
	return replyTransient
}

func describe(item models.Item) string {
	highest := "no bids"
	if bid, ok := item.HighestBid.Get(); ok {
		highest = "highest bid " + notify.FormatAmount(bid.Amount)
	}
	return fmt.Sprintf("- %s (%s to %s): %s, ends %s",
		item.Name, notify.FormatAmount(item.Low), notify.FormatAmount(item.High), highest, formatEnd(item.EndTime))
}

func noSuchItem(name string) string {
	return fmt.Sprintf("There is no running auction named %s.", name)
}

func formatEnd(t time.Time) string {
	return t.UTC().Format(endTimeLayout)
}

// parseAmount accepts plain digits with optional thousands separators
func parseAmount(s string) (int64, error) {
	s = strings.NewReplacer(",", "", "_", "").Replace(s)
	return strconv.ParseInt(s, 10, 64)
}
