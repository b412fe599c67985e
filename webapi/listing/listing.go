// Package listing serves listing submission, browsing, purchase, edit and
// delete.
package listing

import (
	"strconv"

	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/amirasaad/pointmarket/pkg/middleware"
	authsvc "github.com/amirasaad/pointmarket/pkg/service/auth"
	"github.com/amirasaad/pointmarket/pkg/service/market"
	"github.com/amirasaad/pointmarket/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

func Routes(app *fiber.App, marketSvc *market.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/listings", protected, CreateListing(marketSvc, authSvc))
	app.Get("/listings", protected, ListActive(marketSvc, authSvc))
	app.Get("/listings/:id", protected, GetListing(marketSvc, authSvc))
	app.Post("/listings/:id/purchase", protected, Purchase(marketSvc, authSvc))
	app.Put("/listings/:id", protected, EditListing(marketSvc, authSvc))
	app.Delete("/listings/:id", protected, DeleteListing(marketSvc, authSvc))
}

// CreateListing returns a Fiber handler that submits a new listing for the caller.
// @Summary Create listing
// @Description Submits a listing. Price must be positive and the link must use an allowed scheme.
// @Tags listings
// @Accept json
// @Produce json
// @Param request body CreateListingRequest true "Listing"
// @Success 201 {object} common.Response "Listing created"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /listings [post]
// @Security Bearer
func CreateListing(marketSvc *market.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[CreateListingRequest](c)
		if input == nil {
			return err // error response already written
		}
		res, err := marketSvc.CreateListing(c.UserContext(), market.CreateListing{
			SellerID:    userID,
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			Link:        input.Link,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create listing", err)
		}
		log.Infof("Listing %d created by %s", res.ListingID, userID)
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Listing created", CreatedDTO{
			ListingID:     res.ListingID,
			SellerBalance: res.SellerBalance,
		})
	}
}

// ListActive returns a Fiber handler listing unsold listings, newest first.
// @Summary List active listings
// @Tags listings
// @Produce json
// @Param limit query int false "Maximum number of listings"
// @Success 200 {object} common.Response "Listings fetched"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /listings [get]
// @Security Bearer
func ListActive(marketSvc *market.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		listings, err := marketSvc.ListActive(c.UserContext(), c.QueryInt("limit", 0))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list listings", err)
		}
		out := make([]ListingDTO, 0, len(listings))
		for _, l := range listings {
			out = append(out, publicDTO(l, userID))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Listings fetched", out)
	}
}

// GetListing returns a Fiber handler for one listing. The link is withheld
// from everyone but the seller.
// @Summary Get listing
// @Tags listings
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} common.Response "Listing fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 404 {object} common.ProblemDetails "Listing not found"
// @Router /listings/{id} [get]
// @Security Bearer
func GetListing(marketSvc *market.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, ok := listingID(c)
		if !ok {
			return invalidID(c)
		}
		l, err := marketSvc.GetListing(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get listing", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Listing fetched", publicDTO(l, userID))
	}
}

// Purchase returns a Fiber handler that buys a listing for the caller.
// @Summary Purchase listing
// @Description Debits the buyer, credits the seller and marks the listing sold in one transaction. The link is revealed in the response.
// @Tags listings
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} common.Response "Purchase successful"
// @Failure 404 {object} common.ProblemDetails "Listing not found"
// @Failure 409 {object} common.ProblemDetails "Listing already sold"
// @Failure 422 {object} common.ProblemDetails "Insufficient funds or own listing"
// @Router /listings/{id}/purchase [post]
// @Security Bearer
func Purchase(marketSvc *market.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, ok := listingID(c)
		if !ok {
			return invalidID(c)
		}
		res, err := marketSvc.Purchase(c.UserContext(), id, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to purchase listing", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Purchase successful", PurchaseDTO{
			ListingID:    res.ListingID,
			Name:         res.Name,
			SellerID:     res.SellerID,
			Price:        res.Price,
			Link:         res.Link,
			BuyerBalance: res.BuyerBalance,
		})
	}
}

// EditListing returns a Fiber handler that changes an active listing.
// @Summary Edit listing
// @Tags listings
// @Accept json
// @Produce json
// @Param id path int true "Listing ID"
// @Param request body EditListingRequest true "Fields to change"
// @Success 200 {object} common.Response "Listing updated"
// @Failure 403 {object} common.ProblemDetails "Not the seller"
// @Failure 409 {object} common.ProblemDetails "Listing already sold"
// @Router /listings/{id} [put]
// @Security Bearer
func EditListing(marketSvc *market.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, ok := listingID(c)
		if !ok {
			return invalidID(c)
		}
		input, err := common.BindAndValidate[EditListingRequest](c)
		if input == nil {
			return err // error response already written
		}
		l, err := marketSvc.EditListing(c.UserContext(), id, userID, input.fields())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to edit listing", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Listing updated", toDTO(l))
	}
}

// DeleteListing returns a Fiber handler that removes an active listing.
// @Summary Delete listing
// @Tags listings
// @Param id path int true "Listing ID"
// @Success 200 {object} common.Response "Listing deleted"
// @Failure 403 {object} common.ProblemDetails "Not the seller"
// @Failure 404 {object} common.ProblemDetails "Listing not found"
// @Router /listings/{id} [delete]
// @Security Bearer
func DeleteListing(marketSvc *market.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, ok := listingID(c)
		if !ok {
			return invalidID(c)
		}
		if err := marketSvc.DeleteListing(c.UserContext(), id, userID); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete listing", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Listing deleted", fiber.Map{"listing_id": id})
	}
}

func listingID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

func invalidID(c *fiber.Ctx) error {
	return common.ProblemDetailsJSON(c, "Invalid listing ID", nil, "listing id must be a positive integer", fiber.StatusBadRequest)
}
