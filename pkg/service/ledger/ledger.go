// Package ledger provides the points ledger: balances, transfers and the
// administrative mint and burn operations.
//
// All mutations run inside a UnitOfWork transaction. Events and leaderboard
// invalidation happen only after the transaction committed.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/pointmarket/pkg/cache"
	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/amirasaad/pointmarket/pkg/domain"
	"github.com/amirasaad/pointmarket/pkg/domain/account"
	"github.com/amirasaad/pointmarket/pkg/domain/audit"
	"github.com/amirasaad/pointmarket/pkg/domain/events"
	"github.com/amirasaad/pointmarket/pkg/eventbus"
	"github.com/amirasaad/pointmarket/pkg/mapper"
	"github.com/amirasaad/pointmarket/pkg/repository"
)

// ErrNotAdmin is returned when a non-admin calls an administrative operation.
var ErrNotAdmin = fmt.Errorf("administrator privileges required: %w", domain.ErrForbidden)

// TransferResult reports both balances after a transfer.
type TransferResult struct {
	FromID      string
	ToID        string
	Amount      int64
	FromBalance int64
	ToBalance   int64
}

// Service provides ledger operations.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	board  cache.Invalidator
	policy *config.Market
	logger *slog.Logger
}

// New creates a ledger Service.
func New(
	uow repository.UnitOfWork,
	bus eventbus.Bus,
	board cache.Invalidator,
	policy *config.Market,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:    uow,
		bus:    bus,
		board:  board,
		policy: policy,
		logger: logger.With("service", "ledger"),
	}
}

// EnsureAccount creates a zero-balance account for id if it does not exist.
func (s *Service) EnsureAccount(ctx context.Context, id string) error {
	if err := account.ValidateID(id); err != nil {
		return err
	}
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return err
	}
	return repo.Ensure(ctx, id)
}

// GetBalance returns the balance of id, or 0 for an account never seen.
func (s *Service) GetBalance(ctx context.Context, id string) (int64, error) {
	if err := account.ValidateID(id); err != nil {
		return 0, err
	}
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return 0, err
	}
	acct, err := repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		s.logger.Error("GetBalance failed", "account_id", id, "error", err)
		return 0, err
	}
	return acct.Points, nil
}

// Credit adds amount to id and returns the new balance.
func (s *Service) Credit(ctx context.Context, id string, amount int64) (balance int64, err error) {
	if err = validate(id, amount); err != nil {
		return 0, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		balance, err = CreditTx(ctx, uow, id, amount)
		return err
	})
	if err != nil {
		LogFailure(s.logger.With("account_id", id), "Credit", err)
		return 0, err
	}
	AfterCommit(ctx, nil, s.board, s.logger)
	return balance, nil
}

// Debit takes amount from id if the balance covers it and returns the new
// balance. It fails with an *account.InsufficientFundsError otherwise and
// the balance is left untouched.
func (s *Service) Debit(ctx context.Context, id string, amount int64) (balance int64, err error) {
	if err = validate(id, amount); err != nil {
		return 0, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		balance, err = DebitTx(ctx, uow, id, amount)
		return err
	})
	if err != nil {
		LogFailure(s.logger.With("account_id", id), "Debit", err)
		return 0, err
	}
	AfterCommit(ctx, nil, s.board, s.logger)
	return balance, nil
}

// Transfer moves amount from one account to another. Nothing changes when
// the sender cannot cover it.
func (s *Service) Transfer(ctx context.Context, from, to string, amount int64) (res TransferResult, err error) {
	logger := s.logger.With("from", from, "to", to, "amount", amount)
	logger.Info("Transfer started")

	if err = validate(from, amount); err != nil {
		return res, err
	}
	if err = account.ValidateID(to); err != nil {
		return res, err
	}
	if s.policy != nil && s.policy.IsBlockedRecipient(to) {
		return res, account.ErrRecipientNotAllowed
	}

	res = TransferResult{FromID: from, ToID: to, Amount: amount}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accts, err := LockAccounts(ctx, uow, from, to)
		if err != nil {
			return err
		}
		if err := accts[from].ValidateTransfer(to, amount); err != nil {
			return err
		}
		if res.FromBalance, err = DebitTx(ctx, uow, from, amount); err != nil {
			return err
		}
		if res.ToBalance, err = CreditTx(ctx, uow, to, amount); err != nil {
			return err
		}
		return AppendAudit(ctx, uow, audit.NewEntry(audit.TypeTransfer, from, to, amount))
	})
	if err != nil {
		LogFailure(logger, "Transfer", err)
		return TransferResult{}, err
	}

	AfterCommit(ctx, s.bus, s.board, logger, &events.PointsTransferred{
		Meta:        events.NewMeta(),
		FromID:      from,
		ToID:        to,
		Amount:      amount,
		FromBalance: res.FromBalance,
		ToBalance:   res.ToBalance,
	})
	logger.Info("Transfer successful", "from_balance", res.FromBalance)
	return res, nil
}

// AdminCredit mints amount into id on behalf of actor.
func (s *Service) AdminCredit(ctx context.Context, actor, id string, amount int64) (balance int64, err error) {
	logger := s.logger.With("actor", actor, "account_id", id, "amount", amount)
	logger.Info("AdminCredit started")

	if err = s.authorize(actor); err != nil {
		return 0, err
	}
	if err = validate(id, amount); err != nil {
		return 0, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if balance, err = CreditTx(ctx, uow, id, amount); err != nil {
			return err
		}
		return AppendAudit(ctx, uow, audit.NewEntry(audit.TypeAdminCredit, actor, id, amount))
	})
	if err != nil {
		LogFailure(logger, "AdminCredit", err)
		return 0, err
	}

	AfterCommit(ctx, s.bus, s.board, logger, &events.PointsCredited{
		Meta:       events.NewMeta(),
		ActorID:    actor,
		AccountID:  id,
		Amount:     amount,
		NewBalance: balance,
	})
	logger.Info("AdminCredit successful", "balance", balance)
	return balance, nil
}

// AdminDebit burns amount from id on behalf of actor. Like Debit it never
// drives the balance negative.
func (s *Service) AdminDebit(ctx context.Context, actor, id string, amount int64) (balance int64, err error) {
	logger := s.logger.With("actor", actor, "account_id", id, "amount", amount)
	logger.Info("AdminDebit started")

	if err = s.authorize(actor); err != nil {
		return 0, err
	}
	if err = validate(id, amount); err != nil {
		return 0, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if balance, err = DebitTx(ctx, uow, id, amount); err != nil {
			return err
		}
		return AppendAudit(ctx, uow, audit.NewEntry(audit.TypeAdminDebit, actor, id, amount))
	})
	if err != nil {
		LogFailure(logger, "AdminDebit", err)
		return 0, err
	}

	AfterCommit(ctx, s.bus, s.board, logger, &events.PointsDebited{
		Meta:       events.NewMeta(),
		ActorID:    actor,
		AccountID:  id,
		Amount:     amount,
		NewBalance: balance,
	})
	logger.Info("AdminDebit successful", "balance", balance)
	return balance, nil
}

// AuditLog lists the most recent audit entries involving id.
func (s *Service) AuditLog(ctx context.Context, actor, id string, limit int) ([]*audit.Entry, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	repo, err := s.uow.AuditRepository()
	if err != nil {
		return nil, err
	}
	rows, err := repo.ListByAccount(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]*audit.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, mapper.MapAuditReadToDomain(r))
	}
	return entries, nil
}

// IsAdmin reports whether id is an administrative principal.
func (s *Service) IsAdmin(id string) bool {
	return s.policy != nil && s.policy.IsAdmin(id)
}

func (s *Service) authorize(actor string) error {
	if !s.IsAdmin(actor) {
		return ErrNotAdmin
	}
	return nil
}

func validate(id string, amount int64) error {
	if err := account.ValidateID(id); err != nil {
		return err
	}
	return account.ValidateAmount(amount)
}
