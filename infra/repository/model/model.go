// Package model holds the GORM persistence models.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is a ledger row. LastClaimDay is the calendar day of the last daily
// claim in the reward time zone, compared by the conditional claim update.
type Account struct {
	ID           string  `gorm:"primaryKey;size:64"`
	Points       int64   `gorm:"not null;default:0;index"`
	LastClaimAt  *time.Time
	LastClaimDay *string `gorm:"size:10"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Listing is a sell offer row.
type Listing struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	SellerID    string  `gorm:"size:64;not null;index"`
	Price       int64   `gorm:"not null"`
	Name        string  `gorm:"size:200;not null"`
	Description string  `gorm:"type:text"`
	Link        string  `gorm:"type:text;not null"`
	Sold        bool    `gorm:"not null;default:false;index"`
	BuyerID     *string `gorm:"size:64"`
	SoldAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AuditEntry is an append-only audit log row.
type AuditEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type      string    `gorm:"size:32;not null;index"`
	ActorID   string    `gorm:"size:64;index"`
	TargetID  string    `gorm:"size:64;index"`
	Amount    int64
	ListingID *int64
	Detail    string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}

// All lists every model for schema migration.
func All() []any {
	return []any{&Account{}, &Listing{}, &AuditEntry{}}
}
