package account

import (
	"context"
	"time"

	"github.com/amirasaad/pointmarket/pkg/dto"
)

// Repository defines the data access operations of the points ledger.
// Mutating methods are conditional updates so that concurrent callers
// inside separate transactions can never drive a balance negative.
type Repository interface {
	// Ensure inserts a zero-balance account if id is unknown. It is a no-op otherwise.
	Ensure(ctx context.Context, id string) error

	// Get retrieves an account. Returns domain.ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*dto.AccountRead, error)

	// GetForUpdate retrieves an account and locks its row until the transaction ends
	// on engines that support row locks.
	GetForUpdate(ctx context.Context, id string) (*dto.AccountRead, error)

	// LockOrdered retrieves the accounts in ids and locks their rows in
	// ascending id order until the transaction ends. Unknown ids are skipped.
	LockOrdered(ctx context.Context, ids []string) ([]*dto.AccountRead, error)

	// Credit adds amount to the balance and returns the new balance.
	Credit(ctx context.Context, id string, amount int64) (int64, error)

	// Debit subtracts amount only if the balance covers it and returns the new
	// balance. Returns account.ErrInsufficientFunds when it does not.
	Debit(ctx context.Context, id string, amount int64) (int64, error)

	// StampClaim records a daily claim at "at" only if no claim was recorded on
	// day yet. Returns account.ErrAlreadyClaimedToday otherwise.
	StampClaim(ctx context.Context, id string, day string, at time.Time) error

	// Top lists accounts by points descending, ties broken by id ascending.
	Top(ctx context.Context, limit int) ([]*dto.AccountRead, error)
}
