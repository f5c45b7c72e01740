package biddingerrors

import (
	"errors"
	"fmt"

	model "sealed-auction/internal/models"
)

// Repository-level errors
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrItemExists        = errors.New("an active item with this name already exists")
	ErrAlreadyRegistered = errors.New("user already registered")
)

// business logic errors
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotRegistered = errors.New("user is not registered")
	ErrOutOfRange    = errors.New("bid amount out of range")
	ErrAuctionEnded  = errors.New("auction has ended")
	ErrNotHighEnough = errors.New("bid amount not higher than current highest bid")
	ErrInconsistent  = errors.New("internal inconsistency")
)

// BidConflictError reports a rejected bid together with the item's state at rejection time
type BidConflictError struct {
	Reason  error
	Highest model.HighestBid
}

func (e *BidConflictError) Error() string {
	if bid, ok := e.Highest.Get(); ok {
		return fmt.Sprintf("%v - current highest bid is %d", e.Reason, bid.Amount)
	}
	return fmt.Sprintf("%v - no bids yet", e.Reason)
}

func (e *BidConflictError) Unwrap() error {
	return e.Reason
}

// RangeError reports a bid outside the item's sealed range
type RangeError struct {
	Low, High int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v - amount must be between %d and %d", ErrOutOfRange, e.Low, e.High)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// Kind classifies errors for the transport layers
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindNotRegistered
	KindNotFound
	KindConflict
	KindInconsistency
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindNotRegistered:
		return "not_registered"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInconsistency:
		return "inconsistency"
	default:
		return "transient"
	}
}

// KindOf maps err onto the taxonomy. Anything unrecognised is transient.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation), errors.Is(err, ErrOutOfRange):
		return KindValidation
	case errors.Is(err, ErrNotRegistered):
		return KindNotRegistered
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrNotHighEnough), errors.Is(err, ErrAuctionEnded),
		errors.Is(err, ErrAlreadyRegistered), errors.Is(err, ErrItemExists):
		return KindConflict
	case errors.Is(err, ErrInconsistent):
		return KindInconsistency
	default:
		return KindTransient
	}
}
