// Package admin serves the administrative mint, burn and audit endpoints.
// Every handler re-checks the caller against the configured admin ids in
// the ledger service.
package admin

import (
	"context"
	"time"

	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/amirasaad/pointmarket/pkg/domain/audit"
	"github.com/amirasaad/pointmarket/pkg/middleware"
	authsvc "github.com/amirasaad/pointmarket/pkg/service/auth"
	"github.com/amirasaad/pointmarket/pkg/service/ledger"
	"github.com/amirasaad/pointmarket/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

//revive:disable

// AmountRequest is the body of credit and debit requests.
type AmountRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// BalanceDTO reports the balance after an administrative change.
type BalanceDTO struct {
	AccountID string `json:"account_id"`
	Amount    int64  `json:"amount"`
	Balance   int64  `json:"balance"`
}

// AuditEntryDTO is the API representation of an audit entry.
type AuditEntryDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ActorID   string    `json:"actor_id"`
	TargetID  string    `json:"target_id"`
	Amount    int64     `json:"amount"`
	ListingID *int64    `json:"listing_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

//revive:enable

func Routes(app *fiber.App, ledgerSvc *ledger.Service, authSvc *authsvc.Service, cfg *config.App) {
	group := app.Group("/admin", middleware.JwtProtected(cfg.Auth.Jwt))
	group.Post("/accounts/:id/credit", Credit(ledgerSvc, authSvc))
	group.Post("/accounts/:id/debit", Debit(ledgerSvc, authSvc))
	group.Get("/accounts/:id/audit", AuditLog(ledgerSvc, authSvc))
}

// Credit returns a Fiber handler that mints points into an account.
// @Summary Admin credit
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body AmountRequest true "Amount"
// @Success 200 {object} common.Response "Points added"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 403 {object} common.ProblemDetails "Administrator privileges required"
// @Router /admin/accounts/{id}/credit [post]
// @Security Bearer
func Credit(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return adjust(authSvc, "Points added", ledgerSvc.AdminCredit)
}

// Debit returns a Fiber handler that burns points from an account. The
// balance never goes below zero.
// @Summary Admin debit
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body AmountRequest true "Amount"
// @Success 200 {object} common.Response "Points removed"
// @Failure 403 {object} common.ProblemDetails "Administrator privileges required"
// @Failure 422 {object} common.ProblemDetails "Insufficient funds"
// @Router /admin/accounts/{id}/debit [post]
// @Security Bearer
func Debit(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return adjust(authSvc, "Points removed", ledgerSvc.AdminDebit)
}

func adjust(
	authSvc *authsvc.Service,
	message string,
	op func(ctx context.Context, actor, id string, amount int64) (int64, error),
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[AmountRequest](c)
		if input == nil {
			return err // error response already written
		}
		id := c.Params("id")
		balance, err := op(c.UserContext(), actor, id, input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to adjust balance", err)
		}
		log.Infof("%s: %s changed %s by %d", message, actor, id, input.Amount)
		return common.SuccessResponseJSON(c, fiber.StatusOK, message, BalanceDTO{
			AccountID: id,
			Amount:    input.Amount,
			Balance:   balance,
		})
	}
}

// AuditLog returns a Fiber handler listing the newest audit entries that
// involve an account.
// @Summary Account audit log
// @Tags admin
// @Produce json
// @Param id path string true "Account ID"
// @Param limit query int false "Maximum number of entries"
// @Success 200 {object} common.Response "Audit entries fetched"
// @Failure 403 {object} common.ProblemDetails "Administrator privileges required"
// @Router /admin/accounts/{id}/audit [get]
// @Security Bearer
func AuditLog(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		entries, err := ledgerSvc.AuditLog(c.UserContext(), actor, c.Params("id"), c.QueryInt("limit", 50))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to load audit log", err)
		}
		out := make([]AuditEntryDTO, 0, len(entries))
		for _, e := range entries {
			out = append(out, toAuditDTO(e))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Audit entries fetched", out)
	}
}

func toAuditDTO(e *audit.Entry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:        e.ID.String(),
		Type:      string(e.Type),
		ActorID:   e.ActorID,
		TargetID:  e.TargetID,
		Amount:    e.Amount,
		ListingID: e.ListingID,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
}
