// Package audit describes the append-only log of ledger and listing mutations.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies an audit entry.
type Type string

const (
	TypeAdminCredit    Type = "admin_credit"
	TypeAdminDebit     Type = "admin_debit"
	TypeTransfer       Type = "transfer"
	TypePurchase       Type = "purchase"
	TypeDailyReward    Type = "daily_reward"
	TypeListingCreated Type = "listing_created"
	TypeListingUpdated Type = "listing_updated"
	TypeListingDeleted Type = "listing_deleted"
)

// Entry is one recorded mutation. Target is the account whose balance or
// listing was affected; ListingID is set for listing-related entries.
type Entry struct {
	ID        uuid.UUID
	Type      Type
	ActorID   string
	TargetID  string
	Amount    int64
	ListingID *int64
	Detail    string
	CreatedAt time.Time
}

// NewEntry stamps a new entry with an id and the current time.
func NewEntry(t Type, actorID, targetID string, amount int64) *Entry {
	return &Entry{
		ID:        uuid.New(),
		Type:      t,
		ActorID:   actorID,
		TargetID:  targetID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}

// ForListing attaches a listing reference.
func (e *Entry) ForListing(id int64) *Entry {
	e.ListingID = &id
	return e
}

// WithDetail attaches free text.
func (e *Entry) WithDetail(detail string) *Entry {
	e.Detail = detail
	return e
}
