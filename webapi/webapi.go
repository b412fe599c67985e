// Package webapi provides the HTTP surface of the point market.
// It is organized into sub-packages for different domains:
// - account: balances, transfers, daily rewards and the leaderboard
// - listing: listing submission, browsing, purchase, edit and delete
// - admin: administrative credit, debit and audit log
package webapi

import (
	"errors"
	"strings"

	_ "github.com/amirasaad/pointmarket/docs"
	"github.com/amirasaad/pointmarket/pkg/app"
	accountweb "github.com/amirasaad/pointmarket/webapi/account"
	adminweb "github.com/amirasaad/pointmarket/webapi/admin"
	"github.com/amirasaad/pointmarket/webapi/common"
	listingweb "github.com/amirasaad/pointmarket/webapi/listing"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ProblemDetailsJSON(c, fe.Message, nil, fe.Message, fe.Code)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))

	// Uses X-Forwarded-For header when behind a proxy, then X-Real-IP,
	// then the direct IP.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:          a.Config.RateLimit.MaxRequests,
		Expiration:   a.Config.RateLimit.Window,
		KeyGenerator: clientIP,
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				"rate limit exceeded",
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Keep-alive endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Point market is running!")
	})

	accountweb.Routes(fiberApp, a.LedgerService, a.RewardService, a.LeaderboardService, a.AuthService, a.Config)
	listingweb.Routes(fiberApp, a.MarketService, a.AuthService, a.Config)
	adminweb.Routes(fiberApp, a.LedgerService, a.AuthService, a.Config)
	return fiberApp
}

func clientIP(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		// Take the first IP in the chain
		if first, _, found := strings.Cut(forwardedFor, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
