// Package events defines the notifications published after a ledger or
// listing mutation has been committed.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is anything that can travel over the event bus.
type Event interface {
	Type() string
}

// Meta identifies a single emitted event.
type Meta struct {
	ID         uuid.UUID `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewMeta returns metadata for an event happening now.
func NewMeta() Meta {
	return Meta{ID: uuid.New(), OccurredAt: time.Now().UTC()}
}

// EventID exposes the id for idempotent consumers.
func (m Meta) EventID() string {
	return m.ID.String()
}

// PointsCredited is emitted after an admin mints points into an account.
type PointsCredited struct {
	Meta
	ActorID    string `json:"actor_id"`
	AccountID  string `json:"account_id"`
	Amount     int64  `json:"amount"`
	NewBalance int64  `json:"new_balance"`
}

// PointsDebited is emitted after an admin burns points from an account.
type PointsDebited struct {
	Meta
	ActorID    string `json:"actor_id"`
	AccountID  string `json:"account_id"`
	Amount     int64  `json:"amount"`
	NewBalance int64  `json:"new_balance"`
}

// PointsTransferred is emitted after a peer-to-peer transfer.
type PointsTransferred struct {
	Meta
	FromID      string `json:"from_id"`
	ToID        string `json:"to_id"`
	Amount      int64  `json:"amount"`
	FromBalance int64  `json:"from_balance"`
	ToBalance   int64  `json:"to_balance"`
}

// DailyRewardClaimed is emitted after a daily reward grant.
type DailyRewardClaimed struct {
	Meta
	AccountID  string `json:"account_id"`
	Granted    int64  `json:"granted"`
	NewBalance int64  `json:"new_balance"`
}

// ListingCreated is emitted after a listing was submitted.
type ListingCreated struct {
	Meta
	ListingID int64  `json:"listing_id"`
	SellerID  string `json:"seller_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
}

// ListingUpdated is emitted after a listing was edited.
type ListingUpdated struct {
	Meta
	ListingID int64  `json:"listing_id"`
	EditorID  string `json:"editor_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
}

// ListingDeleted is emitted after a listing was removed.
type ListingDeleted struct {
	Meta
	ListingID int64  `json:"listing_id"`
	EditorID  string `json:"editor_id"`
	SellerID  string `json:"seller_id"`
	Name      string `json:"name"`
}

// ListingPurchased is emitted after a sale committed. The link is not part of
// the event; only the buyer receives it, in the purchase result.
type ListingPurchased struct {
	Meta
	ListingID     int64  `json:"listing_id"`
	Name          string `json:"name"`
	SellerID      string `json:"seller_id"`
	BuyerID       string `json:"buyer_id"`
	Price         int64  `json:"price"`
	SellerBalance int64  `json:"seller_balance"`
	BuyerBalance  int64  `json:"buyer_balance"`
}

func (e PointsCredited) Type() string     { return EventTypePointsCredited.String() }
func (e PointsDebited) Type() string      { return EventTypePointsDebited.String() }
func (e PointsTransferred) Type() string  { return EventTypePointsTransferred.String() }
func (e DailyRewardClaimed) Type() string { return EventTypeDailyRewardClaimed.String() }
func (e ListingCreated) Type() string     { return EventTypeListingCreated.String() }
func (e ListingUpdated) Type() string     { return EventTypeListingUpdated.String() }
func (e ListingDeleted) Type() string     { return EventTypeListingDeleted.String() }
func (e ListingPurchased) Type() string   { return EventTypeListingPurchased.String() }
