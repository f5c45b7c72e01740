package models

import "encoding/json"

// HighestBid is either NoBid or Leading(bid). The zero value is NoBid.
type HighestBid struct {
	bid     Bid
	present bool
}

// NoBid returns the empty variant
func NoBid() HighestBid {
	return HighestBid{}
}

// Leading returns the variant holding bid
func Leading(bid Bid) HighestBid {
	return HighestBid{bid: bid, present: true}
}

// Get returns the leading bid and whether one exists
func (h HighestBid) Get() (Bid, bool) {
	return h.bid, h.present
}

// Amount returns the leading amount, or 0 for NoBid
func (h HighestBid) Amount() int64 {
	if !h.present {
		return 0
	}
	return h.bid.Amount
}

// Beats reports whether amount strictly exceeds the leading bid.
// Any positive amount beats NoBid.
func (h HighestBid) Beats(amount int64) bool {
	return !h.present || amount > h.bid.Amount
}

// MarshalJSON encodes NoBid as null
func (h HighestBid) MarshalJSON() ([]byte, error) {
	if !h.present {
		return []byte("null"), nil
	}
	return json.Marshal(h.bid)
}

// UnmarshalJSON decodes null as NoBid
func (h *HighestBid) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*h = NoBid()
		return nil
	}
	var bid Bid
	if err := json.Unmarshal(data, &bid); err != nil {
		return err
	}
	*h = Leading(bid)
	return nil
}
