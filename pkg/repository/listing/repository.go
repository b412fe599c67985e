package listing

import (
	"context"
	"time"

	"github.com/amirasaad/pointmarket/pkg/dto"
)

// Repository defines the data access operations for listings.
type Repository interface {
	// Create inserts an active listing and returns its assigned id.
	Create(ctx context.Context, create dto.ListingCreate) (int64, error)

	// Get retrieves a listing. Returns domain.ErrNotFound for unknown ids.
	Get(ctx context.Context, id int64) (*dto.ListingRead, error)

	// GetForUpdate retrieves a listing and locks its row until the transaction ends
	// on engines that support row locks.
	GetForUpdate(ctx context.Context, id int64) (*dto.ListingRead, error)

	// ListActive returns unsold listings, newest first.
	ListActive(ctx context.Context, limit int) ([]*dto.ListingRead, error)

	// MarkSold flips an active listing to sold with the given buyer.
	// Returns listing.ErrAlreadySold if the listing was no longer active.
	MarkSold(ctx context.Context, id int64, buyerID string, at time.Time) error

	// Update replaces payload fields of an active listing.
	// Returns listing.ErrAlreadySold if the listing was no longer active.
	Update(ctx context.Context, id int64, update dto.ListingUpdate) error

	// Delete removes a listing. Returns domain.ErrNotFound if nothing was removed.
	Delete(ctx context.Context, id int64) error
}
