// Package listing models sell offers and their Active -> Sold life cycle.
package listing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/pointmarket/pkg/domain"
)

var (
	// ErrListingNotFound is returned when a listing id does not resolve.
	ErrListingNotFound = fmt.Errorf("listing not found: %w", domain.ErrNotFound)

	// ErrAlreadySold is returned when a sold listing is purchased, edited or withdrawn by its seller.
	ErrAlreadySold = errors.New("listing already sold")

	// ErrSelfPurchase is returned when a seller tries to buy their own listing.
	ErrSelfPurchase = errors.New("cannot purchase your own listing")

	// ErrInvalidPrice is returned when a price is not a positive integer.
	ErrInvalidPrice = fmt.Errorf("price must be positive: %w", domain.ErrValidation)

	// ErrInvalidLink is returned when a link does not start with an allowed scheme.
	ErrInvalidLink = fmt.Errorf("link must start with an allowed scheme: %w", domain.ErrValidation)

	// ErrNameRequired is returned when a listing has an empty name.
	ErrNameRequired = fmt.Errorf("name is required: %w", domain.ErrValidation)

	// ErrSellerRequired is returned when a listing has no seller.
	ErrSellerRequired = fmt.Errorf("seller is required: %w", domain.ErrValidation)

	// ErrForbidden is returned when someone other than the seller or an admin manages a listing.
	ErrForbidden = fmt.Errorf("only the seller or an admin may manage this listing: %w", domain.ErrForbidden)
)

// DefaultSchemes are the link prefixes accepted when none are configured.
var DefaultSchemes = []string{"https://", "http://"}

// Status is the life-cycle state of a listing.
type Status string

const (
	StatusActive Status = "active"
	StatusSold   Status = "sold"
)

// Listing is a sell offer. ID and SellerID never change after creation.
type Listing struct {
	ID          int64
	SellerID    string
	Price       int64
	Name        string
	Description string
	Link        string
	Status      Status
	BuyerID     *string
	SoldAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Builder validates and assembles a new Active listing.
type Builder struct {
	id          int64
	sellerID    string
	price       int64
	name        string
	description string
	link        string
	schemes     []string
	status      Status
	buyerID     *string
	soldAt      *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// New returns a Builder for an Active listing using DefaultSchemes.
func New() *Builder {
	return &Builder{
		schemes:   DefaultSchemes,
		status:    StatusActive,
		createdAt: time.Now().UTC(),
	}
}

func (b *Builder) WithID(id int64) *Builder {
	b.id = id
	return b
}

func (b *Builder) WithSeller(sellerID string) *Builder {
	b.sellerID = sellerID
	return b
}

func (b *Builder) WithPrice(price int64) *Builder {
	b.price = price
	return b
}

func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

func (b *Builder) WithDescription(description string) *Builder {
	b.description = description
	return b
}

func (b *Builder) WithLink(link string) *Builder {
	b.link = link
	return b
}

// WithAllowedSchemes overrides the accepted link prefixes. Empty keeps the defaults.
func (b *Builder) WithAllowedSchemes(schemes []string) *Builder {
	if len(schemes) > 0 {
		b.schemes = schemes
	}
	return b
}

// WithSold hydrates a sold listing from storage.
func (b *Builder) WithSold(buyerID string, at time.Time) *Builder {
	b.status = StatusSold
	b.buyerID = &buyerID
	b.soldAt = &at
	return b
}

func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates seller, name, price and link.
func (b *Builder) Build() (*Listing, error) {
	if strings.TrimSpace(b.sellerID) == "" {
		return nil, ErrSellerRequired
	}
	if err := validatePayload(b.name, b.price, b.link, b.schemes); err != nil {
		return nil, err
	}
	return &Listing{
		ID:          b.id,
		SellerID:    b.sellerID,
		Price:       b.price,
		Name:        strings.TrimSpace(b.name),
		Description: b.description,
		Link:        strings.TrimSpace(b.link),
		Status:      b.status,
		BuyerID:     b.buyerID,
		SoldAt:      b.soldAt,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.updatedAt,
	}, nil
}

func validatePayload(name string, price int64, link string, schemes []string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if price <= 0 {
		return ErrInvalidPrice
	}
	return ValidateLink(link, schemes)
}

// ValidateLink checks that link begins with one of schemes.
func ValidateLink(link string, schemes []string) error {
	if len(schemes) == 0 {
		schemes = DefaultSchemes
	}
	link = strings.ToLower(strings.TrimSpace(link))
	for _, s := range schemes {
		if s != "" && strings.HasPrefix(link, strings.ToLower(s)) && len(link) > len(s) {
			return nil
		}
	}
	return ErrInvalidLink
}

// IsSold reports whether the listing reached its terminal state.
func (l *Listing) IsSold() bool {
	return l.Status == StatusSold
}

// ValidatePurchase applies the purchase guards that depend on the listing itself.
func (l *Listing) ValidatePurchase(buyerID string) error {
	if l.IsSold() {
		return ErrAlreadySold
	}
	if l.SellerID == buyerID {
		return ErrSelfPurchase
	}
	return nil
}

// MarkSold moves the listing to Sold and records the buyer.
func (l *Listing) MarkSold(buyerID string, at time.Time) error {
	if err := l.ValidatePurchase(buyerID); err != nil {
		return err
	}
	l.Status = StatusSold
	l.BuyerID = &buyerID
	l.SoldAt = &at
	l.UpdatedAt = at
	return nil
}

// CanManage reports whether actorID may edit or delete the listing.
func (l *Listing) CanManage(actorID string, isAdmin bool) error {
	if isAdmin || l.SellerID == actorID {
		return nil
	}
	return ErrForbidden
}

// CanDelete reports whether actorID may remove the listing. Sellers may only
// withdraw listings that are still Active; admins may remove any listing.
func (l *Listing) CanDelete(actorID string, isAdmin bool) error {
	if err := l.CanManage(actorID, isAdmin); err != nil {
		return err
	}
	if l.IsSold() && !isAdmin {
		return ErrAlreadySold
	}
	return nil
}

// Fields is a partial edit. Nil fields are left unchanged.
type Fields struct {
	Name        *string
	Description *string
	Price       *int64
	Link        *string
}

// Empty reports whether the edit changes nothing.
func (f Fields) Empty() bool {
	return f.Name == nil && f.Description == nil && f.Price == nil && f.Link == nil
}

// Edit validates and applies f. Sold listings cannot be edited.
func (l *Listing) Edit(f Fields, schemes []string, at time.Time) error {
	if l.IsSold() {
		return ErrAlreadySold
	}
	next := *l
	if f.Name != nil {
		next.Name = strings.TrimSpace(*f.Name)
	}
	if f.Description != nil {
		next.Description = *f.Description
	}
	if f.Price != nil {
		next.Price = *f.Price
	}
	if f.Link != nil {
		next.Link = strings.TrimSpace(*f.Link)
	}
	if err := validatePayload(next.Name, next.Price, next.Link, schemes); err != nil {
		return err
	}
	next.UpdatedAt = at
	*l = next
	return nil
}

// PublicView returns a copy safe to show to anyone: the link is withheld.
func (l *Listing) PublicView() Listing {
	v := *l
	v.Link = ""
	return v
}
