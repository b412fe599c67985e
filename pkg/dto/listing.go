package dto

import "time"

// ListingRead is a read-optimized DTO for listing queries.
type ListingRead struct {
	ID          int64
	SellerID    string
	Price       int64
	Name        string
	Description string
	Link        string
	Sold        bool
	BuyerID     *string
	SoldAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListingCreate is a DTO for submitting a new listing.
type ListingCreate struct {
	SellerID    string
	Price       int64
	Name        string
	Description string
	Link        string
}

// ListingUpdate is a DTO for replacing one or more payload fields of an active listing.
type ListingUpdate struct {
	Name        *string
	Description *string
	Price       *int64
	Link        *string
}
