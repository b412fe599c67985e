package reward

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirasaad/pointmarket/infra/eventbus"
	"github.com/amirasaad/pointmarket/internal/testutils"
	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/amirasaad/pointmarket/pkg/domain/account"
	"github.com/amirasaad/pointmarket/pkg/domain/events"
	"github.com/amirasaad/pointmarket/pkg/service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestService(t *testing.T, tz string, start time.Time) (*Service, *ledger.Service, *fakeClock, *eventbus.MemoryEventBus) {
	t.Helper()
	uow, _ := testutils.NewTestUoW(t)
	logger := testutils.DiscardLogger()
	bus := eventbus.NewWithMemory(logger)
	clock := &fakeClock{now: start}
	svc := New(uow, bus, nil, &config.Reward{DailyAmount: 10, Timezone: tz}, logger, WithClock(clock))
	return svc, ledger.New(uow, bus, nil, &config.Market{}, logger), clock, bus
}

func TestClaimDaily_OncePerDay(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc, ledgerSvc, clock, bus := newTestService(t, "UTC", start)

	res, err := svc.ClaimDaily(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.Granted)
	assert.Equal(t, int64(10), res.NewBalance)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), res.NextEligible)

	clock.Set(start.Add(15 * time.Hour))
	_, err = svc.ClaimDaily(ctx, "alice")
	var already *account.AlreadyClaimedError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, time.Hour, already.Remaining)

	balance, err := ledgerSvc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance, "rejected claim does not change balance")

	clock.Set(start.Add(16 * time.Hour))
	res, err = svc.ClaimDaily(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(20), res.NewBalance)

	claimed := 0
	for _, e := range bus.Published() {
		if _, ok := e.(*events.DailyRewardClaimed); ok {
			claimed++
		}
	}
	assert.Equal(t, 2, claimed)
}

func TestClaimDaily_UsesConfiguredTimezone(t *testing.T) {
	ctx := context.Background()
	// 23:30 UTC on the 10th is already the 11th in Warsaw (UTC+1 in March).
	start := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	svc, _, clock, _ := newTestService(t, "Europe/Warsaw", start.Add(-2*time.Hour))

	_, err := svc.ClaimDaily(ctx, "alice")
	require.NoError(t, err)

	clock.Set(start)
	_, err = svc.ClaimDaily(ctx, "alice")
	require.NoError(t, err, "a new Warsaw day has started")
}

func TestClaimDaily_ConcurrentClaimsGrantOnce(t *testing.T) {
	ctx := context.Background()
	svc, ledgerSvc, _, _ := newTestService(t, "UTC", time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	var granted atomic.Int32
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ClaimDaily(ctx, "alice"); err == nil {
				granted.Add(1)
			} else {
				assert.ErrorIs(t, err, account.ErrAlreadyClaimedToday)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), granted.Load())
	balance, err := ledgerSvc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)
}

func TestClaimDaily_InvalidID(t *testing.T) {
	svc, _, _, _ := newTestService(t, "UTC", time.Now())
	_, err := svc.ClaimDaily(context.Background(), "")
	assert.ErrorIs(t, err, account.ErrInvalidAccountID)
}
