// Package account serves balances, transfers, daily rewards and the
// leaderboard.
package account

import (
	"errors"
	"strconv"

	"github.com/amirasaad/pointmarket/pkg/config"
	accountdomain "github.com/amirasaad/pointmarket/pkg/domain/account"
	"github.com/amirasaad/pointmarket/pkg/middleware"
	authsvc "github.com/amirasaad/pointmarket/pkg/service/auth"
	"github.com/amirasaad/pointmarket/pkg/service/leaderboard"
	"github.com/amirasaad/pointmarket/pkg/service/ledger"
	"github.com/amirasaad/pointmarket/pkg/service/reward"
	"github.com/amirasaad/pointmarket/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

func Routes(
	app *fiber.App,
	ledgerSvc *ledger.Service,
	rewardSvc *reward.Service,
	boardSvc *leaderboard.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	app.Get("/account/balance", middleware.JwtProtected(cfg.Auth.Jwt), GetOwnBalance(ledgerSvc, authSvc))
	app.Get("/account/:id/balance", middleware.JwtProtected(cfg.Auth.Jwt), GetBalance(ledgerSvc))
	app.Post("/account/transfer", middleware.JwtProtected(cfg.Auth.Jwt), Transfer(ledgerSvc, authSvc))
	app.Post("/account/daily", middleware.JwtProtected(cfg.Auth.Jwt), ClaimDaily(rewardSvc, authSvc))
	app.Get("/leaderboard", Leaderboard(boardSvc))
}

// GetOwnBalance returns a Fiber handler for the caller's balance.
// @Summary Get own balance
// @Description Returns the authenticated user's point balance. Unknown accounts have zero points.
// @Tags accounts
// @Produce json
// @Success 200 {object} common.Response "Balance fetched"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 429 {object} common.ProblemDetails "Too many requests"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /account/balance [get]
// @Security Bearer
func GetOwnBalance(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		return balance(c, ledgerSvc, userID)
	}
}

// GetBalance returns a Fiber handler for any account's balance.
// @Summary Get account balance
// @Description Returns the point balance of the given account id.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response "Balance fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /account/{id}/balance [get]
// @Security Bearer
func GetBalance(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return balance(c, ledgerSvc, c.Params("id"))
	}
}

func balance(c *fiber.Ctx, ledgerSvc *ledger.Service, id string) error {
	points, err := ledgerSvc.GetBalance(c.UserContext(), id)
	if err != nil {
		log.Errorf("Failed to get balance: %v", err)
		return common.ProblemDetailsJSON(c, "Failed to get balance", err)
	}
	return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance fetched", BalanceDTO{AccountID: id, Points: points})
}

// Transfer returns a Fiber handler that moves points from the caller to another account.
// @Summary Transfer points
// @Description Moves points from the authenticated user to another account. Both balances are returned.
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body TransferRequest true "Transfer details"
// @Success 200 {object} common.Response "Transfer successful"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 403 {object} common.ProblemDetails "Recipient not allowed"
// @Failure 422 {object} common.ProblemDetails "Insufficient funds"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /account/transfer [post]
// @Security Bearer
func Transfer(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err // error response already written
		}
		res, err := ledgerSvc.Transfer(c.UserContext(), userID, input.To, input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to transfer", err, fundsDetail(err))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer successful", TransferDTO{
			From:        res.FromID,
			To:          res.ToID,
			Amount:      res.Amount,
			FromBalance: res.FromBalance,
			ToBalance:   res.ToBalance,
		})
	}
}

// ClaimDaily returns a Fiber handler that grants the daily reward once per calendar day.
// @Summary Claim daily reward
// @Tags accounts
// @Produce json
// @Success 200 {object} common.Response "Reward granted"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 409 {object} common.ProblemDetails "Already claimed today"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /account/daily [post]
// @Security Bearer
func ClaimDaily(rewardSvc *reward.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		res, err := rewardSvc.ClaimDaily(c.UserContext(), userID)
		if err != nil {
			var claimed *accountdomain.AlreadyClaimedError
			if errors.As(err, &claimed) {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(claimed.Remaining.Seconds())))
				return common.ProblemDetailsJSON(c, "Already claimed", err, fiber.Map{
					"next_eligible": claimed.NextEligible,
				})
			}
			return common.ProblemDetailsJSON(c, "Failed to claim reward", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Reward granted", ClaimDTO{
			Granted:      res.Granted,
			NewBalance:   res.NewBalance,
			NextEligible: res.NextEligible,
		})
	}
}

// Leaderboard returns a Fiber handler for the ranked balances.
// @Summary Leaderboard
// @Description Accounts ordered by points, ties broken by account id.
// @Tags accounts
// @Produce json
// @Param limit query int false "Number of entries"
// @Success 200 {object} common.Response "Leaderboard fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /leaderboard [get]
func Leaderboard(boardSvc *leaderboard.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 0)
		if limit < 0 {
			return common.ProblemDetailsJSON(c, "Invalid limit", nil, "limit must not be negative", fiber.StatusBadRequest)
		}
		entries, err := boardSvc.Top(c.UserContext(), limit)
		if err != nil {
			log.Errorf("Failed to load leaderboard: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to load leaderboard", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Leaderboard fetched", LeaderboardDTO{Entries: entries})
	}
}

// fundsDetail exposes the required and available amounts of an
// insufficient-funds rejection.
func fundsDetail(err error) any {
	var insufficient *accountdomain.InsufficientFundsError
	if errors.As(err, &insufficient) {
		return fiber.Map{"required": insufficient.Required, "available": insufficient.Available}
	}
	return nil
}
