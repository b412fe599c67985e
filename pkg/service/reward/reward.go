// Package reward grants the fixed daily point reward.
package reward

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/pointmarket/pkg/cache"
	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/amirasaad/pointmarket/pkg/domain/account"
	"github.com/amirasaad/pointmarket/pkg/domain/audit"
	"github.com/amirasaad/pointmarket/pkg/domain/events"
	"github.com/amirasaad/pointmarket/pkg/eventbus"
	"github.com/amirasaad/pointmarket/pkg/mapper"
	"github.com/amirasaad/pointmarket/pkg/repository"
	"github.com/amirasaad/pointmarket/pkg/service/ledger"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// ClaimResult reports a granted reward.
type ClaimResult struct {
	Granted      int64
	NewBalance   int64
	NextEligible time.Time
}

// Service grants daily rewards.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	board  cache.Invalidator
	amount int64
	loc    *time.Location
	clock  Clock
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// New creates a reward Service. Calendar days are evaluated in the
// configured time zone.
func New(
	uow repository.UnitOfWork,
	bus eventbus.Bus,
	board cache.Invalidator,
	cfg *config.Reward,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		uow:    uow,
		bus:    bus,
		board:  board,
		amount: cfg.DailyAmount,
		loc:    cfg.Location(),
		clock:  ClockFunc(time.Now),
		logger: logger.With("service", "reward"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClaimDaily credits the daily amount to id unless it already claimed on
// the current calendar day, in which case an *account.AlreadyClaimedError
// carries the time until the next claim.
func (s *Service) ClaimDaily(ctx context.Context, id string) (res ClaimResult, err error) {
	logger := s.logger.With("account_id", id)
	logger.Info("ClaimDaily started")

	if err = account.ValidateID(id); err != nil {
		return res, err
	}
	if err = account.ValidateAmount(s.amount); err != nil {
		return res, err
	}

	now := s.clock.Now()
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if err := repo.Ensure(ctx, id); err != nil {
			return err
		}
		row, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		acct, err := mapper.MapAccountReadToDomain(row)
		if err != nil {
			return err
		}
		if err := account.CanClaim(acct.LastClaim, now, s.loc); err != nil {
			return err
		}
		if err := repo.StampClaim(ctx, id, now.In(s.loc).Format(account.DayLayout), now); err != nil {
			if errors.Is(err, account.ErrAlreadyClaimedToday) {
				next := account.NextMidnight(now, s.loc)
				return &account.AlreadyClaimedError{NextEligible: next, Remaining: next.Sub(now)}
			}
			return err
		}
		if res.NewBalance, err = ledger.CreditTx(ctx, uow, id, s.amount); err != nil {
			return err
		}
		return ledger.AppendAudit(ctx, uow, audit.NewEntry(audit.TypeDailyReward, id, id, s.amount))
	})
	if err != nil {
		ledger.LogFailure(logger, "ClaimDaily", err)
		return ClaimResult{}, err
	}

	res.Granted = s.amount
	res.NextEligible = account.NextMidnight(now, s.loc)
	ledger.AfterCommit(ctx, s.bus, s.board, logger, &events.DailyRewardClaimed{
		Meta:       events.NewMeta(),
		AccountID:  id,
		Granted:    res.Granted,
		NewBalance: res.NewBalance,
	})
	logger.Info("ClaimDaily successful", "balance", res.NewBalance)
	return res, nil
}
