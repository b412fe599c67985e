package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	infracache "github.com/amirasaad/pointmarket/infra/cache"
	"github.com/amirasaad/pointmarket/infra/eventbus"
	"github.com/amirasaad/pointmarket/internal/fixtures/mocks"
	"github.com/amirasaad/pointmarket/internal/testutils"
	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/amirasaad/pointmarket/pkg/domain"
	"github.com/amirasaad/pointmarket/pkg/domain/account"
	"github.com/amirasaad/pointmarket/pkg/domain/audit"
	"github.com/amirasaad/pointmarket/pkg/domain/events"
	"github.com/amirasaad/pointmarket/pkg/dto"
	repoaccount "github.com/amirasaad/pointmarket/pkg/repository/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *eventbus.MemoryEventBus) {
	t.Helper()
	uow, _ := testutils.NewTestUoW(t)
	bus := eventbus.NewWithMemory(testutils.DiscardLogger())
	policy := &config.Market{
		AdminIDs:          []string{"admin"},
		BlockedRecipients: []string{"bot"},
	}
	return New(uow, bus, infracache.NewMemoryCache(), policy, testutils.DiscardLogger()), bus
}

func TestGetBalance_UnknownAccountIsZero(t *testing.T) {
	svc, _ := newTestService(t)
	balance, err := svc.GetBalance(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, balance)

	_, err = svc.GetBalance(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEnsureAccount_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.EnsureAccount(ctx, "alice"))
	require.NoError(t, svc.EnsureAccount(ctx, "alice"))
	assert.ErrorIs(t, svc.EnsureAccount(ctx, ""), account.ErrInvalidAccountID)
}

func TestCreditAndDebit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	balance, err := svc.Credit(ctx, "alice", 40)
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance)

	balance, err = svc.Debit(ctx, "alice", 15)
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance)

	_, err = svc.Debit(ctx, "alice", 26)
	var insufficient *account.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(26), insufficient.Required)
	assert.Equal(t, int64(25), insufficient.Available)

	balance, err = svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance, "failed debit leaves balance untouched")
}

func TestCredit_Additive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	pairs := [][2]int64{{1, 1}, {7, 30}, {250, 5}}
	for _, p := range pairs {
		_, err := svc.Credit(ctx, "split", p[0])
		require.NoError(t, err)
		_, err = svc.Credit(ctx, "split", p[1])
		require.NoError(t, err)
		_, err = svc.Credit(ctx, "whole", p[0]+p[1])
		require.NoError(t, err)
	}
	split, err := svc.GetBalance(ctx, "split")
	require.NoError(t, err)
	whole, err := svc.GetBalance(ctx, "whole")
	require.NoError(t, err)
	assert.Equal(t, whole, split)
}

func TestCreditAndDebit_RejectNonPositiveAmounts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, amount := range []int64{0, -5} {
		_, err := svc.Credit(ctx, "alice", amount)
		assert.ErrorIs(t, err, account.ErrAmountMustBePositive)
		_, err = svc.Debit(ctx, "alice", amount)
		assert.ErrorIs(t, err, account.ErrAmountMustBePositive)
	}
}

func TestDebit_UnknownAccountIsInsufficient(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Debit(context.Background(), "ghost", 1)
	assert.ErrorIs(t, err, account.ErrInsufficientFunds)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves points and publishes", func(t *testing.T) {
		svc, bus := newTestService(t)
		_, err := svc.Credit(ctx, "alice", 50)
		require.NoError(t, err)

		res, err := svc.Transfer(ctx, "alice", "bob", 20)
		require.NoError(t, err)
		assert.Equal(t, int64(30), res.FromBalance)
		assert.Equal(t, int64(20), res.ToBalance)

		published := bus.Published()
		require.Len(t, published, 1)
		evt, ok := published[0].(*events.PointsTransferred)
		require.True(t, ok)
		assert.Equal(t, "bob", evt.ToID)

		entries, err := svc.AuditLog(ctx, "admin", "bob", 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, audit.TypeTransfer, entries[0].Type)
	})

	t.Run("insufficient funds changes nothing", func(t *testing.T) {
		svc, bus := newTestService(t)
		_, err := svc.Credit(ctx, "alice", 5)
		require.NoError(t, err)

		_, err = svc.Transfer(ctx, "alice", "bob", 6)
		require.ErrorIs(t, err, account.ErrInsufficientFunds)

		a, _ := svc.GetBalance(ctx, "alice")
		b, _ := svc.GetBalance(ctx, "bob")
		assert.Equal(t, int64(5), a)
		assert.Equal(t, int64(0), b)
		assert.Empty(t, bus.Published())
	})

	t.Run("rejections", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Transfer(ctx, "alice", "alice", 1)
		assert.ErrorIs(t, err, account.ErrSelfTransfer)

		_, err = svc.Transfer(ctx, "alice", "bot", 1)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = svc.Transfer(ctx, "alice", "bob", 0)
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.Transfer(ctx, "alice", "", 1)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAdminCredit_TwiceWritesTwoAuditEntries(t *testing.T) {
	svc, bus := newTestService(t)
	ctx := context.Background()

	balance, err := svc.AdminCredit(ctx, "admin", "d", 25)
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance)

	balance, err = svc.AdminCredit(ctx, "admin", "d", 25)
	require.NoError(t, err)
	assert.Equal(t, int64(50), balance)

	entries, err := svc.AuditLog(ctx, "admin", "d", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, audit.TypeAdminCredit, e.Type)
		assert.Equal(t, "admin", e.ActorID)
		assert.Equal(t, int64(25), e.Amount)
	}
	assert.Len(t, bus.Published(), 2)
}

func TestAdminDebit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.AdminCredit(ctx, "admin", "d", 10)
	require.NoError(t, err)

	_, err = svc.AdminDebit(ctx, "admin", "d", 11)
	assert.ErrorIs(t, err, account.ErrInsufficientFunds)

	balance, err := svc.AdminDebit(ctx, "admin", "d", 10)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestAdminOperations_RequireAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AdminCredit(ctx, "mallory", "d", 25)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.AdminDebit(ctx, "mallory", "d", 25)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.AuditLog(ctx, "mallory", "d", 10)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	balance, err := svc.GetBalance(ctx, "d")
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestLockAccounts_LocksInIDOrder(t *testing.T) {
	repo := &recordingRepo{rows: []*dto.AccountRead{{ID: "alice", Points: 5}, {ID: "bob"}}}
	uow := mocks.NewUnitOfWork(t)
	uow.EXPECT().AccountRepository().Return(repo, nil).Once()

	accts, err := LockAccounts(context.Background(), uow, "bob", "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, repo.ensured)
	assert.Equal(t, []string{"alice", "bob"}, repo.locked)
	require.Contains(t, accts, "alice")
	assert.Equal(t, int64(5), accts["alice"].Points)
}

func TestLockAccounts_MissingRow(t *testing.T) {
	repo := &recordingRepo{rows: []*dto.AccountRead{{ID: "alice"}}}
	uow := mocks.NewUnitOfWork(t)
	uow.EXPECT().AccountRepository().Return(repo, nil).Once()

	_, err := LockAccounts(context.Background(), uow, "alice", "bob")
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCrossedTransfersConserveTotal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, id := range []string{"alice", "bob"} {
		_, err := svc.Credit(ctx, id, 50)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := range 20 {
		from, to := "alice", "bob"
		if i%2 == 1 {
			from, to = to, from
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, from, to, 5)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	a, err := svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	b, err := svc.GetBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(50), a)
	assert.Equal(t, int64(50), b)
}

func TestConcurrentTransfersNeverOverdraw(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Credit(ctx, "alice", 30)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Transfer(ctx, "alice", "bob", 10)
		}()
	}
	wg.Wait()

	a, err := svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	b, err := svc.GetBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), a)
	assert.Equal(t, int64(30), b)
}

func TestStorageFailureIsNotARejection(t *testing.T) {
	uow := mocks.NewUnitOfWork(t)
	storageErr := errors.New("disk I/O error")
	uow.EXPECT().Do(mock.Anything, mock.Anything).Return(storageErr).Once()

	svc := New(uow, nil, nil, &config.Market{}, testutils.DiscardLogger())
	_, err := svc.Credit(context.Background(), "alice", 1)
	require.ErrorIs(t, err, storageErr)
	assert.False(t, IsRejection(err))
}

func TestMutationsInvalidateLeaderboard(t *testing.T) {
	uow, _ := testutils.NewTestUoW(t)
	board := mocks.NewLeaderboardCache(t)
	board.EXPECT().Invalidate(mock.Anything).Return(nil).Once()

	svc := New(uow, nil, board, &config.Market{}, testutils.DiscardLogger())
	_, err := svc.Credit(context.Background(), "alice", 1)
	require.NoError(t, err)
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(&account.InsufficientFundsError{Required: 2, Available: 1}))
	assert.True(t, IsRejection(ErrNotAdmin))
	assert.True(t, IsRejection(account.ErrAlreadyClaimedToday))
	assert.False(t, IsRejection(errors.New("connection refused")))
	assert.False(t, IsRejection(nil))
}

type recordingRepo struct {
	repoaccount.Repository
	rows    []*dto.AccountRead
	ensured []string
	locked  []string
}

func (r *recordingRepo) Ensure(_ context.Context, id string) error {
	r.ensured = append(r.ensured, id)
	return nil
}

func (r *recordingRepo) LockOrdered(_ context.Context, ids []string) ([]*dto.AccountRead, error) {
	r.locked = ids
	return r.rows, nil
}
