package ledger

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/amirasaad/pointmarket/pkg/cache"
	"github.com/amirasaad/pointmarket/pkg/domain"
	"github.com/amirasaad/pointmarket/pkg/domain/account"
	"github.com/amirasaad/pointmarket/pkg/domain/audit"
	"github.com/amirasaad/pointmarket/pkg/domain/events"
	"github.com/amirasaad/pointmarket/pkg/domain/listing"
	"github.com/amirasaad/pointmarket/pkg/eventbus"
	"github.com/amirasaad/pointmarket/pkg/mapper"
	"github.com/amirasaad/pointmarket/pkg/repository"
)

// The helpers below must run inside uow.Do; every balance mutation in the
// application goes through them.

// CreditTx ensures the account exists and adds amount to it.
func CreditTx(ctx context.Context, uow repository.UnitOfWork, id string, amount int64) (int64, error) {
	repo, err := uow.AccountRepository()
	if err != nil {
		return 0, err
	}
	if err := repo.Ensure(ctx, id); err != nil {
		return 0, err
	}
	return repo.Credit(ctx, id, amount)
}

// DebitTx ensures the account exists and takes amount from it if the balance
// covers it. The row is locked first; the conditional update in the
// repository still guards engines without row locks.
func DebitTx(ctx context.Context, uow repository.UnitOfWork, id string, amount int64) (int64, error) {
	repo, err := uow.AccountRepository()
	if err != nil {
		return 0, err
	}
	if err := repo.Ensure(ctx, id); err != nil {
		return 0, err
	}
	row, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return 0, err
	}
	acct, err := mapper.MapAccountReadToDomain(row)
	if err != nil {
		return 0, err
	}
	if err := acct.ValidateDebit(amount); err != nil {
		return 0, err
	}
	return repo.Debit(ctx, id, amount)
}

// LockAccounts ensures every account in ids exists and locks their rows in
// ascending id order before any balance changes. Operations that move points
// between two accounts call it first, so two transactions touching the same
// pair always take the row locks in the same order.
func LockAccounts(ctx context.Context, uow repository.UnitOfWork, ids ...string) (map[string]*account.Account, error) {
	ordered := slices.Compact(slices.Sorted(slices.Values(ids)))
	repo, err := uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	for _, id := range ordered {
		if err := repo.Ensure(ctx, id); err != nil {
			return nil, err
		}
	}
	rows, err := repo.LockOrdered(ctx, ordered)
	if err != nil {
		return nil, err
	}
	accts := make(map[string]*account.Account, len(rows))
	for _, row := range rows {
		acct, err := mapper.MapAccountReadToDomain(row)
		if err != nil {
			return nil, err
		}
		accts[acct.ID] = acct
	}
	for _, id := range ordered {
		if _, ok := accts[id]; !ok {
			return nil, account.ErrAccountNotFound
		}
	}
	return accts, nil
}

// AppendAudit records e in the current transaction.
func AppendAudit(ctx context.Context, uow repository.UnitOfWork, e *audit.Entry) error {
	repo, err := uow.AuditRepository()
	if err != nil {
		return err
	}
	return repo.Append(ctx, mapper.MapAuditEntryToCreate(e))
}

// AfterCommit drops cached leaderboard pages and publishes evts. Both are
// best effort: failures are logged and the committed mutation stands.
func AfterCommit(
	ctx context.Context,
	bus eventbus.Bus,
	board cache.Invalidator,
	logger *slog.Logger,
	evts ...events.Event,
) {
	if board != nil {
		if err := board.Invalidate(ctx); err != nil {
			logger.Warn("leaderboard invalidation failed", "error", err)
		}
	}
	if bus == nil {
		return
	}
	for _, evt := range evts {
		if err := bus.Emit(ctx, evt); err != nil {
			logger.Warn("event publication failed", "type", evt.Type(), "error", err)
		}
	}
}

// IsRejection reports whether err is an expected business-rule outcome
// rather than a system fault. Rejections are not logged as errors.
func IsRejection(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrForbidden,
		domain.ErrConflict,
		account.ErrInsufficientFunds,
		account.ErrSelfTransfer,
		account.ErrAlreadyClaimedToday,
		listing.ErrAlreadySold,
		listing.ErrSelfPurchase,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// LogFailure logs err at a level matching its class.
func LogFailure(logger *slog.Logger, msg string, err error) {
	if IsRejection(err) {
		logger.Info(msg+" rejected", "reason", err)
		return
	}
	logger.Error(msg+" failed", "error", err)
}
