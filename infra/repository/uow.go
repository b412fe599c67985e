package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/amirasaad/pointmarket/pkg/repository"
	"github.com/amirasaad/pointmarket/pkg/repository/account"
	"github.com/amirasaad/pointmarket/pkg/repository/audit"
	"github.com/amirasaad/pointmarket/pkg/repository/listing"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories handed out inside Do share the transaction session; outside Do
// they run on the plain connection pool.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*account.Repository)(nil)): func(db *gorm.DB) any { return NewAccountRepository(db) },
			reflect.TypeOf((*listing.Repository)(nil)): func(db *gorm.DB) any { return NewListingRepository(db) },
			reflect.TypeOf((*audit.Repository)(nil)):   func(db *gorm.DB) any { return NewAuditRepository(db) },
		},
	}
}

// Do runs fn in a database transaction. Any error returned by fn, or a panic,
// rolls the transaction back.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// GetRepository returns the repository registered for repoType, a nil pointer
// to one of the repository interfaces.
func (u *UoW) GetRepository(repoType any) (any, error) {
	constructor, ok := u.repoRegistry[reflect.TypeOf(repoType)]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %T", repoType)
	}
	return constructor(u.session()), nil
}

// AccountRepository returns the ledger repository for the current session.
func (u *UoW) AccountRepository() (account.Repository, error) {
	repoAny, err := u.GetRepository((*account.Repository)(nil))
	if err != nil {
		return nil, err
	}
	return repoAny.(account.Repository), nil
}

// ListingRepository returns the listing repository for the current session.
func (u *UoW) ListingRepository() (listing.Repository, error) {
	repoAny, err := u.GetRepository((*listing.Repository)(nil))
	if err != nil {
		return nil, err
	}
	return repoAny.(listing.Repository), nil
}

// AuditRepository returns the audit log repository for the current session.
func (u *UoW) AuditRepository() (audit.Repository, error) {
	repoAny, err := u.GetRepository((*audit.Repository)(nil))
	if err != nil {
		return nil, err
	}
	return repoAny.(audit.Repository), nil
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

var _ repository.UnitOfWork = (*UoW)(nil)
