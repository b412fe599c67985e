package market

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	infracache "github.com/amirasaad/pointmarket/infra/cache"
	"github.com/amirasaad/pointmarket/infra/eventbus"
	"github.com/amirasaad/pointmarket/internal/testutils"
	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/amirasaad/pointmarket/pkg/domain"
	"github.com/amirasaad/pointmarket/pkg/domain/account"
	"github.com/amirasaad/pointmarket/pkg/domain/audit"
	"github.com/amirasaad/pointmarket/pkg/domain/events"
	"github.com/amirasaad/pointmarket/pkg/domain/listing"
	"github.com/amirasaad/pointmarket/pkg/service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
	ctx    context.Context
	bus    *eventbus.MemoryEventBus
	ledger *ledger.Service
	svc    *Service
}

func (s *MarketTestSuite) SetupTest() {
	s.ctx = context.Background()
	uow, _ := testutils.NewTestUoW(s.T())
	logger := testutils.DiscardLogger()
	s.bus = eventbus.NewWithMemory(logger)
	board := infracache.NewMemoryCache()
	policy := &config.Market{
		AdminIDs:           []string{"admin"},
		AllowedLinkSchemes: []string{"https://", "http://"},
		ListLimit:          3,
	}
	s.ledger = ledger.New(uow, s.bus, board, policy, logger)
	s.svc = New(uow, s.bus, board, policy, logger)
}

func TestMarketTestSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func (s *MarketTestSuite) fund(id string, amount int64) {
	_, err := s.ledger.Credit(s.ctx, id, amount)
	s.Require().NoError(err)
}

func (s *MarketTestSuite) balance(id string) int64 {
	b, err := s.ledger.GetBalance(s.ctx, id)
	s.Require().NoError(err)
	return b
}

func (s *MarketTestSuite) list(seller string, price int64) int64 {
	res, err := s.svc.CreateListing(s.ctx, CreateListing{
		SellerID: seller,
		Name:     "Game key",
		Price:    price,
		Link:     "https://example.com/key",
	})
	s.Require().NoError(err)
	return res.ListingID
}

func (s *MarketTestSuite) TestPurchase_SellerPaidBuyerCharged() {
	s.fund("A", 100)
	s.fund("B", 40)
	id := s.list("A", 30)
	s.bus.ClearPublished()

	res, err := s.svc.Purchase(s.ctx, id, "B")
	s.Require().NoError(err)
	s.Equal("https://example.com/key", res.Link)
	s.Equal("A", res.SellerID)
	s.Equal(int64(30), res.Price)
	s.Equal(int64(10), res.BuyerBalance)
	s.Equal(int64(130), res.SellerBalance)

	s.Equal(int64(10), s.balance("B"))
	s.Equal(int64(130), s.balance("A"))

	l, err := s.svc.GetListing(s.ctx, id)
	s.Require().NoError(err)
	s.True(l.IsSold())
	s.Require().NotNil(l.BuyerID)
	s.Equal("B", *l.BuyerID)

	published := s.bus.Published()
	s.Require().Len(published, 1)
	evt, ok := published[0].(*events.ListingPurchased)
	s.Require().True(ok)
	s.Equal(int64(130), evt.SellerBalance)

	entries, err := s.ledger.AuditLog(s.ctx, "admin", "B", 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(audit.TypePurchase, entries[0].Type)
	s.Require().NotNil(entries[0].ListingID)
	s.Equal(id, *entries[0].ListingID)
}

func (s *MarketTestSuite) TestPurchase_InsufficientFundsChangesNothing() {
	s.fund("C", 10)
	id := s.list("S", 50)

	_, err := s.svc.Purchase(s.ctx, id, "C")
	var insufficient *account.InsufficientFundsError
	s.Require().ErrorAs(err, &insufficient)
	s.Equal(int64(50), insufficient.Required)
	s.Equal(int64(10), insufficient.Available)

	s.Equal(int64(10), s.balance("C"))
	s.Equal(int64(0), s.balance("S"))
	l, err := s.svc.GetListing(s.ctx, id)
	s.Require().NoError(err)
	s.False(l.IsSold())
}

func (s *MarketTestSuite) TestPurchase_SecondAttemptIsAlreadySold() {
	s.fund("B", 100)
	s.fund("E", 100)
	id := s.list("A", 30)

	_, err := s.svc.Purchase(s.ctx, id, "B")
	s.Require().NoError(err)

	_, err = s.svc.Purchase(s.ctx, id, "E")
	s.ErrorIs(err, listing.ErrAlreadySold)
	_, err = s.svc.Purchase(s.ctx, id, "B")
	s.ErrorIs(err, listing.ErrAlreadySold)

	s.Equal(int64(70), s.balance("B"))
	s.Equal(int64(100), s.balance("E"))
	s.Equal(int64(30), s.balance("A"))
}

func (s *MarketTestSuite) TestPurchase_OwnListingRegardlessOfBalance() {
	s.fund("A", 1000)
	id := s.list("A", 30)

	_, err := s.svc.Purchase(s.ctx, id, "A")
	s.ErrorIs(err, listing.ErrSelfPurchase)
	s.Equal(int64(1000), s.balance("A"))
}

func (s *MarketTestSuite) TestPurchase_UnknownListing() {
	_, err := s.svc.Purchase(s.ctx, 999, "B")
	s.ErrorIs(err, listing.ErrListingNotFound)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *MarketTestSuite) TestCreateListing_Validation() {
	cases := []struct {
		name string
		cmd  CreateListing
		want error
	}{
		{"zero price", CreateListing{SellerID: "A", Name: "x", Price: 0, Link: "https://a"}, listing.ErrInvalidPrice},
		{"bad scheme", CreateListing{SellerID: "A", Name: "x", Price: 1, Link: "ftp://a"}, listing.ErrInvalidLink},
		{"missing name", CreateListing{SellerID: "A", Price: 1, Link: "https://a"}, listing.ErrNameRequired},
		{"missing seller", CreateListing{Name: "x", Price: 1, Link: "https://a"}, listing.ErrSellerRequired},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.svc.CreateListing(s.ctx, tc.cmd)
			s.ErrorIs(err, tc.want)
			s.ErrorIs(err, domain.ErrValidation)
		})
	}

	active, err := s.svc.ListActive(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(active)
}

func (s *MarketTestSuite) TestCreateListing_ReportsSellerBalance() {
	s.fund("A", 100)
	res, err := s.svc.CreateListing(s.ctx, CreateListing{SellerID: "A", Name: "x", Price: 5, Link: "http://a"})
	s.Require().NoError(err)
	s.Positive(res.ListingID)
	s.Equal(int64(100), res.SellerBalance)
}

func (s *MarketTestSuite) TestListActive_NewestFirstAndClamped() {
	ids := make([]int64, 0, 5)
	for range 5 {
		ids = append(ids, s.list("A", 1))
	}
	s.fund("B", 10)
	_, err := s.svc.Purchase(s.ctx, ids[4], "B")
	s.Require().NoError(err)

	active, err := s.svc.ListActive(s.ctx, 100)
	s.Require().NoError(err)
	s.Require().Len(active, 3)
	s.Equal(ids[3], active[0].ID)
	s.Equal(ids[2], active[1].ID)
	s.Equal(ids[1], active[2].ID)
}

func (s *MarketTestSuite) TestEditListing() {
	id := s.list("A", 30)
	price := int64(45)
	name := "Renamed"

	_, err := s.svc.EditListing(s.ctx, id, "B", listing.Fields{Price: &price})
	s.ErrorIs(err, domain.ErrForbidden)

	bad := "mailto:x"
	_, err = s.svc.EditListing(s.ctx, id, "A", listing.Fields{Link: &bad})
	s.ErrorIs(err, listing.ErrInvalidLink)

	edited, err := s.svc.EditListing(s.ctx, id, "A", listing.Fields{Price: &price, Name: &name})
	s.Require().NoError(err)
	s.Equal(int64(45), edited.Price)
	s.Equal("A", edited.SellerID)

	adminPrice := int64(50)
	_, err = s.svc.EditListing(s.ctx, id, "admin", listing.Fields{Price: &adminPrice})
	s.Require().NoError(err)

	got, err := s.svc.GetListing(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(int64(50), got.Price)
	s.Equal("Renamed", got.Name)
	s.Equal("https://example.com/key", got.Link)

	_, err = s.svc.EditListing(s.ctx, 999, "A", listing.Fields{Price: &price})
	s.ErrorIs(err, listing.ErrListingNotFound)
}

func (s *MarketTestSuite) TestEditListing_SoldIsFrozen() {
	id := s.list("A", 30)
	s.fund("B", 30)
	_, err := s.svc.Purchase(s.ctx, id, "B")
	s.Require().NoError(err)

	price := int64(1)
	_, err = s.svc.EditListing(s.ctx, id, "A", listing.Fields{Price: &price})
	s.ErrorIs(err, listing.ErrAlreadySold)
}

func (s *MarketTestSuite) TestDeleteListing() {
	id := s.list("A", 30)

	s.ErrorIs(s.svc.DeleteListing(s.ctx, id, "B"), domain.ErrForbidden)
	s.Require().NoError(s.svc.DeleteListing(s.ctx, id, "A"))
	s.ErrorIs(s.svc.DeleteListing(s.ctx, id, "A"), listing.ErrListingNotFound)

	sold := s.list("A", 5)
	s.fund("B", 5)
	_, err := s.svc.Purchase(s.ctx, sold, "B")
	s.Require().NoError(err)

	s.ErrorIs(s.svc.DeleteListing(s.ctx, sold, "A"), listing.ErrAlreadySold)
	s.Require().NoError(s.svc.DeleteListing(s.ctx, sold, "admin"))

	var deleted int
	for _, e := range s.bus.Published() {
		if _, ok := e.(*events.ListingDeleted); ok {
			deleted++
		}
	}
	s.Equal(2, deleted)
}

func TestConcurrentPurchasesSellOnce(t *testing.T) {
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	logger := testutils.DiscardLogger()
	bus := eventbus.NewWithMemory(logger)
	ledgerSvc := ledger.New(uow, bus, nil, &config.Market{}, logger)
	svc := New(uow, bus, nil, &config.Market{}, logger)

	res, err := svc.CreateListing(ctx, CreateListing{SellerID: "seller", Name: "x", Price: 10, Link: "https://x"})
	require.NoError(t, err)

	buyers := []string{"b1", "b2", "b3", "b4", "b5", "b6", "b7", "b8"}
	for _, b := range buyers {
		_, err := ledgerSvc.Credit(ctx, b, 10)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	var sold atomic.Int32
	for _, b := range buyers {
		wg.Add(1)
		go func(buyer string) {
			defer wg.Done()
			if _, err := svc.Purchase(ctx, res.ListingID, buyer); err == nil {
				sold.Add(1)
			} else {
				assert.ErrorIs(t, err, listing.ErrAlreadySold)
			}
		}(b)
	}
	wg.Wait()

	assert.Equal(t, int32(1), sold.Load())
	sellerBalance, err := ledgerSvc.GetBalance(ctx, "seller")
	require.NoError(t, err)
	assert.Equal(t, int64(10), sellerBalance)

	var total int64
	for _, b := range buyers {
		bal, err := ledgerSvc.GetBalance(ctx, b)
		require.NoError(t, err)
		total += bal
	}
	assert.Equal(t, int64(70), total)
}
