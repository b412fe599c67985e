package listing_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/amirasaad/pointmarket/pkg/domain/events"
	listingweb "github.com/amirasaad/pointmarket/webapi/listing"
	"github.com/amirasaad/pointmarket/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ListingHandlersSuite struct {
	suite.Suite
	server *testutils.Server
	seller string
	buyer  string
}

func (s *ListingHandlersSuite) SetupTest() {
	s.server = testutils.NewServer(s.T())
	s.seller = s.server.Token(s.T(), "seller")
	s.buyer = s.server.Token(s.T(), "buyer")
	_, err := s.server.App.LedgerService.AdminCredit(context.Background(), testutils.AdminID, "buyer", 100)
	s.Require().NoError(err)
}

func (s *ListingHandlersSuite) create(body string) int64 {
	resp := s.server.MakeRequest(s.T(), fiber.MethodPost, "/listings", body, s.seller)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	created := testutils.Decode[testutils.Envelope[listingweb.CreatedDTO]](s.T(), resp)
	s.Positive(created.Data.ListingID)
	return created.Data.ListingID
}

func (s *ListingHandlersSuite) TestCreateValidation() {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"price":5,"link":"https://x"}`},
		{"zero price", `{"name":"a","price":0,"link":"https://x"}`},
		{"bad scheme", `{"name":"a","price":5,"link":"ftp://x"}`},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			resp := s.server.MakeRequest(s.T(), fiber.MethodPost, "/listings", tc.body, s.seller)
			s.Equal(fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func (s *ListingHandlersSuite) TestLinkIsHiddenUntilPurchase() {
	id := s.create(`{"name":"Game key","description":"Steam","price":30,"link":"https://example.com/key"}`)
	path := fmt.Sprintf("/listings/%d", id)

	resp := s.server.MakeRequest(s.T(), fiber.MethodGet, path, "", s.buyer)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	view := testutils.Decode[testutils.Envelope[listingweb.ListingDTO]](s.T(), resp)
	s.Empty(view.Data.Link)
	s.Equal("active", view.Data.Status)

	resp = s.server.MakeRequest(s.T(), fiber.MethodGet, path, "", s.seller)
	own := testutils.Decode[testutils.Envelope[listingweb.ListingDTO]](s.T(), resp)
	s.Equal("https://example.com/key", own.Data.Link)

	resp = s.server.MakeRequest(s.T(), fiber.MethodGet, "/listings", "", s.buyer)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	list := testutils.Decode[testutils.Envelope[[]listingweb.ListingDTO]](s.T(), resp)
	s.Require().Len(list.Data, 1)
	s.Empty(list.Data[0].Link)

	resp = s.server.MakeRequest(s.T(), fiber.MethodPost, path+"/purchase", "", s.buyer)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	bought := testutils.Decode[testutils.Envelope[listingweb.PurchaseDTO]](s.T(), resp)
	s.Equal("https://example.com/key", bought.Data.Link)
	s.Equal(int64(70), bought.Data.BuyerBalance)

	resp = s.server.MakeRequest(s.T(), fiber.MethodPost, path+"/purchase", "", s.buyer)
	s.Equal(fiber.StatusConflict, resp.StatusCode, "a listing sells once")

	var purchased int
	for _, e := range s.server.Bus.Published() {
		if e.Type() == events.EventTypeListingPurchased.String() {
			purchased++
		}
	}
	s.Equal(1, purchased)
}

func (s *ListingHandlersSuite) TestPurchaseRejections() {
	id := s.create(`{"name":"Pricey","price":500,"link":"https://example.com/p"}`)
	path := fmt.Sprintf("/listings/%d/purchase", id)

	resp := s.server.MakeRequest(s.T(), fiber.MethodPost, path, "", s.buyer)
	s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode, "insufficient funds")

	resp = s.server.MakeRequest(s.T(), fiber.MethodPost, path, "", s.seller)
	s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode, "own listing")

	resp = s.server.MakeRequest(s.T(), fiber.MethodPost, "/listings/999/purchase", "", s.buyer)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)

	resp = s.server.MakeRequest(s.T(), fiber.MethodPost, "/listings/abc/purchase", "", s.buyer)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *ListingHandlersSuite) TestEditAndDelete() {
	id := s.create(`{"name":"Old","price":10,"link":"https://example.com/o"}`)
	path := fmt.Sprintf("/listings/%d", id)

	resp := s.server.MakeRequest(s.T(), fiber.MethodPut, path, `{"price":12}`, s.buyer)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)

	resp = s.server.MakeRequest(s.T(), fiber.MethodPut, path, `{"name":"New","price":12}`, s.seller)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	edited := testutils.Decode[testutils.Envelope[listingweb.ListingDTO]](s.T(), resp)
	s.Equal("New", edited.Data.Name)
	s.Equal(int64(12), edited.Data.Price)

	resp = s.server.MakeRequest(s.T(), fiber.MethodDelete, path, "", s.buyer)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)

	admin := s.server.Token(s.T(), testutils.AdminID)
	resp = s.server.MakeRequest(s.T(), fiber.MethodDelete, path, "", admin)
	s.Equal(fiber.StatusOK, resp.StatusCode)

	resp = s.server.MakeRequest(s.T(), fiber.MethodGet, path, "", s.seller)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func TestListingHandlersSuite(t *testing.T) {
	suite.Run(t, new(ListingHandlersSuite))
}

func TestCreateListing_ReportsSellerBalance(t *testing.T) {
	s := testutils.NewServer(t)
	_, err := s.App.LedgerService.AdminCredit(context.Background(), testutils.AdminID, "seller", 7)
	require.NoError(t, err)

	resp := s.MakeRequest(t, fiber.MethodPost, "/listings", `{"name":"a","price":3,"link":"https://x"}`, s.Token(t, "seller"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := testutils.Decode[testutils.Envelope[listingweb.CreatedDTO]](t, resp)
	assert.Equal(t, int64(7), created.Data.SellerBalance)
}
