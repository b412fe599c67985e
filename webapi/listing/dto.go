package listing

import (
	"time"

	domainlisting "github.com/amirasaad/pointmarket/pkg/domain/listing"
)

//revive:disable

// CreateListingRequest represents the request body for submitting a listing.
type CreateListingRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Link        string `json:"link" validate:"required,max=2048"`
}

// EditListingRequest replaces any subset of the listing payload.
type EditListingRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Price       *int64  `json:"price" validate:"omitempty,gt=0"`
	Link        *string `json:"link" validate:"omitempty,max=2048"`
}

// ListingDTO is the API representation of a listing. Link is only filled
// for the seller; a buyer receives it once, in PurchaseDTO.
type ListingDTO struct {
	ID          int64      `json:"id"`
	SellerID    string     `json:"seller_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       int64      `json:"price"`
	Link        string     `json:"link,omitempty"`
	Status      string     `json:"status"`
	BuyerID     *string    `json:"buyer_id,omitempty"`
	SoldAt      *time.Time `json:"sold_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreatedDTO reports the new listing id and the seller's current balance.
type CreatedDTO struct {
	ListingID     int64 `json:"listing_id"`
	SellerBalance int64 `json:"seller_balance"`
}

// PurchaseDTO is returned to the buyer and is the only place the link of
// someone else's listing is revealed.
type PurchaseDTO struct {
	ListingID    int64  `json:"listing_id"`
	Name         string `json:"name"`
	SellerID     string `json:"seller_id"`
	Price        int64  `json:"price"`
	Link         string `json:"link"`
	BuyerBalance int64  `json:"buyer_balance"`
}

func toDTO(l *domainlisting.Listing) ListingDTO {
	return ListingDTO{
		ID:          l.ID,
		SellerID:    l.SellerID,
		Name:        l.Name,
		Description: l.Description,
		Price:       l.Price,
		Link:        l.Link,
		Status:      string(l.Status),
		BuyerID:     l.BuyerID,
		SoldAt:      l.SoldAt,
		CreatedAt:   l.CreatedAt,
	}
}

// publicDTO hides the link unless viewer is the seller.
func publicDTO(l *domainlisting.Listing, viewer string) ListingDTO {
	if viewer == l.SellerID {
		return toDTO(l)
	}
	v := l.PublicView()
	return toDTO(&v)
}

func (r EditListingRequest) fields() domainlisting.Fields {
	return domainlisting.Fields{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Link:        r.Link,
	}
}
