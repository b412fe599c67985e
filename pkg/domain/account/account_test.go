package account_test

import (
	"errors"
	"testing"
	"time"

	"github.com/amirasaad/pointmarket/pkg/domain"
	"github.com/amirasaad/pointmarket/pkg/domain/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	t.Run("builds zero balance account", func(t *testing.T) {
		a, err := account.New().WithID("user-1").Build()
		require.NoError(t, err)
		assert.Equal(t, "user-1", a.ID)
		assert.Equal(t, int64(0), a.Points)
		_, claimed := a.LastClaim.At()
		assert.False(t, claimed)
	})

	t.Run("rejects empty id", func(t *testing.T) {
		_, err := account.New().WithID("  ").Build()
		require.ErrorIs(t, err, account.ErrInvalidAccountID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rejects negative balance", func(t *testing.T) {
		_, err := account.New().WithID("user-1").WithPoints(-1).Build()
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestValidateDebit(t *testing.T) {
	a, err := account.New().WithID("user-1").WithPoints(10).Build()
	require.NoError(t, err)

	assert.NoError(t, a.ValidateDebit(10))
	assert.ErrorIs(t, a.ValidateDebit(0), account.ErrAmountMustBePositive)
	assert.ErrorIs(t, a.ValidateDebit(-5), account.ErrAmountMustBePositive)

	err = a.ValidateDebit(50)
	require.ErrorIs(t, err, account.ErrInsufficientFunds)
	var insufficient *account.InsufficientFundsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, int64(50), insufficient.Required)
	assert.Equal(t, int64(10), insufficient.Available)
}

func TestValidateTransfer(t *testing.T) {
	a, err := account.New().WithID("alice").WithPoints(100).Build()
	require.NoError(t, err)

	assert.NoError(t, a.ValidateTransfer("bob", 100))
	assert.ErrorIs(t, a.ValidateTransfer("alice", 1), account.ErrSelfTransfer)
	assert.ErrorIs(t, a.ValidateTransfer("", 1), account.ErrInvalidAccountID)
	assert.ErrorIs(t, a.ValidateTransfer("bob", 101), account.ErrInsufficientFunds)
}

func TestCanClaim(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	t.Run("never claimed", func(t *testing.T) {
		now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		assert.NoError(t, account.CanClaim(account.NeverClaimed(), now, time.UTC))
	})

	t.Run("same calendar day is rejected with time until midnight", func(t *testing.T) {
		last := account.ClaimedAt(time.Date(2026, 3, 10, 0, 5, 0, 0, time.UTC))
		now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
		err := account.CanClaim(last, now, time.UTC)
		require.ErrorIs(t, err, account.ErrAlreadyClaimedToday)

		var claimed *account.AlreadyClaimedError
		require.True(t, errors.As(err, &claimed))
		assert.Equal(t, 2*time.Hour, claimed.Remaining)
		assert.True(t, claimed.NextEligible.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("next calendar day is allowed even within 24 hours", func(t *testing.T) {
		last := account.ClaimedAt(time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC))
		now := time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)
		assert.NoError(t, account.CanClaim(last, now, time.UTC))
	})

	t.Run("days are taken in the reference zone", func(t *testing.T) {
		// 23:30 UTC on the 10th is already the 11th in Warsaw.
		last := account.ClaimedAt(time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC))
		now := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
		assert.NoError(t, account.CanClaim(last, now, warsaw))
		assert.ErrorIs(t, account.CanClaim(last, now, time.UTC), account.ErrAlreadyClaimedToday)
	})
}

func TestNextMidnight(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	next := account.NextMidnight(now, warsaw)
	assert.Equal(t, "2026-03-11 00:00:00", next.Format("2006-01-02 15:04:05"))
	assert.Equal(t, warsaw, next.Location())
}
