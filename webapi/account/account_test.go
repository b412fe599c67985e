package account_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/amirasaad/pointmarket/pkg/dto"
	accountweb "github.com/amirasaad/pointmarket/webapi/account"
	"github.com/amirasaad/pointmarket/webapi/common"
	"github.com/amirasaad/pointmarket/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fund(t *testing.T, s *testutils.Server, id string, amount int64) {
	t.Helper()
	_, err := s.App.LedgerService.AdminCredit(context.Background(), testutils.AdminID, id, amount)
	require.NoError(t, err)
}

func TestGetBalance(t *testing.T) {
	s := testutils.NewServer(t)
	fund(t, s, "alice", 40)
	token := s.Token(t, "alice")

	resp := s.MakeRequest(t, fiber.MethodGet, "/account/balance", "", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	own := testutils.Decode[testutils.Envelope[accountweb.BalanceDTO]](t, resp)
	assert.Equal(t, int64(40), own.Data.Points)

	resp = s.MakeRequest(t, fiber.MethodGet, "/account/stranger/balance", "", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	other := testutils.Decode[testutils.Envelope[accountweb.BalanceDTO]](t, resp)
	assert.Equal(t, "stranger", other.Data.AccountID)
	assert.Zero(t, other.Data.Points, "unknown accounts have zero points")
}

func TestGetBalance_RequiresToken(t *testing.T) {
	s := testutils.NewServer(t)
	resp := s.MakeRequest(t, fiber.MethodGet, "/account/balance", "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = s.MakeRequest(t, fiber.MethodGet, "/account/balance", "", "garbage")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestTransfer(t *testing.T) {
	s := testutils.NewServer(t)
	fund(t, s, "alice", 50)
	token := s.Token(t, "alice")

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"moves points", `{"to":"bob","amount":20}`, fiber.StatusOK},
		{"missing recipient", `{"amount":5}`, fiber.StatusBadRequest},
		{"non-positive amount", `{"to":"bob","amount":0}`, fiber.StatusBadRequest},
		{"malformed body", `{"to":`, fiber.StatusBadRequest},
		{"to self", `{"to":"alice","amount":5}`, fiber.StatusUnprocessableEntity},
		{"blocked recipient", `{"to":"bot","amount":5}`, fiber.StatusForbidden},
		{"overdraw", `{"to":"bob","amount":31}`, fiber.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := s.MakeRequest(t, fiber.MethodPost, "/account/transfer", tc.body, token)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}

	bob, err := s.App.LedgerService.GetBalance(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(20), bob)
	alice, err := s.App.LedgerService.GetBalance(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(30), alice)
}

func TestTransfer_InsufficientFundsDetail(t *testing.T) {
	s := testutils.NewServer(t)
	fund(t, s, "alice", 10)

	resp := s.MakeRequest(t, fiber.MethodPost, "/account/transfer", `{"to":"bob","amount":25}`, s.Token(t, "alice"))
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	pd := testutils.Decode[common.ProblemDetails](t, resp)
	errs, ok := pd.Errors.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 25, errs["required"])
	assert.EqualValues(t, 10, errs["available"])
}

func TestClaimDaily(t *testing.T) {
	s := testutils.NewServer(t)
	token := s.Token(t, "alice")

	resp := s.MakeRequest(t, fiber.MethodPost, "/account/daily", "", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	claim := testutils.Decode[testutils.Envelope[accountweb.ClaimDTO]](t, resp)
	assert.Equal(t, int64(10), claim.Data.Granted)
	assert.Equal(t, int64(10), claim.Data.NewBalance)

	resp = s.MakeRequest(t, fiber.MethodPost, "/account/daily", "", token)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestLeaderboard(t *testing.T) {
	s := testutils.NewServer(t)
	for i, id := range []string{"carol", "alice", "bob"} {
		fund(t, s, id, int64(10*(i+1)))
	}

	resp := s.MakeRequest(t, fiber.MethodGet, "/leaderboard?limit=2", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	board := testutils.Decode[testutils.Envelope[accountweb.LeaderboardDTO]](t, resp)
	require.Len(t, board.Data.Entries, 2)
	assert.Equal(t, dto.LeaderboardEntry{Rank: 1, AccountID: "bob", Points: 30}, board.Data.Entries[0])
	assert.Equal(t, "alice", board.Data.Entries[1].AccountID)

	resp = s.MakeRequest(t, fiber.MethodGet, fmt.Sprintf("/leaderboard?limit=%d", -1), "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
