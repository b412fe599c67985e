package mapper

import (
	"github.com/amirasaad/pointmarket/pkg/domain/account"
	"github.com/amirasaad/pointmarket/pkg/domain/audit"
	"github.com/amirasaad/pointmarket/pkg/domain/listing"
	"github.com/amirasaad/pointmarket/pkg/dto"
)

// MapAccountReadToDomain maps a dto.AccountRead to a domain Account.
func MapAccountReadToDomain(d *dto.AccountRead) (*account.Account, error) {
	claim := account.NeverClaimed()
	if d.LastClaimAt != nil {
		claim = account.ClaimedAt(*d.LastClaimAt)
	}
	return account.New().
		WithID(d.ID).
		WithPoints(d.Points).
		WithLastClaim(claim).
		WithCreatedAt(d.CreatedAt).
		WithUpdatedAt(d.UpdatedAt).
		Build()
}

// MapListingReadToDomain maps a dto.ListingRead to a domain Listing without
// re-validating the link against the current scheme policy, so listings
// stored under an older policy stay readable.
func MapListingReadToDomain(d *dto.ListingRead) *listing.Listing {
	l := &listing.Listing{
		ID:          d.ID,
		SellerID:    d.SellerID,
		Price:       d.Price,
		Name:        d.Name,
		Description: d.Description,
		Link:        d.Link,
		Status:      listing.StatusActive,
		BuyerID:     d.BuyerID,
		SoldAt:      d.SoldAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Sold {
		l.Status = listing.StatusSold
	}
	return l
}

// MapListingToUpdate builds a full payload update from an edited listing.
func MapListingToUpdate(l *listing.Listing) dto.ListingUpdate {
	return dto.ListingUpdate{
		Name:        &l.Name,
		Description: &l.Description,
		Price:       &l.Price,
		Link:        &l.Link,
	}
}

// MapAuditEntryToCreate maps a domain audit entry to the create DTO.
func MapAuditEntryToCreate(e *audit.Entry) dto.AuditCreate {
	return dto.AuditCreate{
		ID:        e.ID,
		Type:      string(e.Type),
		ActorID:   e.ActorID,
		TargetID:  e.TargetID,
		Amount:    e.Amount,
		ListingID: e.ListingID,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
}

// MapAuditReadToDomain maps a stored audit row to a domain entry.
func MapAuditReadToDomain(r *dto.AuditRead) *audit.Entry {
	return &audit.Entry{
		ID:        r.ID,
		Type:      audit.Type(r.Type),
		ActorID:   r.ActorID,
		TargetID:  r.TargetID,
		Amount:    r.Amount,
		ListingID: r.ListingID,
		Detail:    r.Detail,
		CreatedAt: r.CreatedAt,
	}
}
