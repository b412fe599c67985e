package repository

import (
	"context"

	"github.com/amirasaad/pointmarket/pkg/repository/account"
	"github.com/amirasaad/pointmarket/pkg/repository/audit"
	"github.com/amirasaad/pointmarket/pkg/repository/listing"
)

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Every repository obtained from the UnitOfWork passed to fn shares the same
// transaction, so a purchase's debit, credit, listing flip and audit entry
// commit or roll back together.
//
// Example usage:
//
//	repoAny, err := uow.GetRepository((*account.Repository)(nil))
//	repo := repoAny.(account.Repository)
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	// If the function returns an error, the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested type, bound to the
	// current transaction. repoType is a nil pointer to the repository interface.
	GetRepository(repoType any) (any, error)

	AccountRepository() (account.Repository, error)
	ListingRepository() (listing.Repository, error)
	AuditRepository() (audit.Repository, error)
}
