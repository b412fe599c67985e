package middleware

import (
	"errors"
	"strings"

	"github.com/amirasaad/pointmarket/pkg/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// ContextKey is the fiber Locals key holding the verified *jwt.Token.
const ContextKey = "user"

const problemJSON = "application/problem+json"

// JwtProtected protects routes with an HS256 bearer token signed with the
// configured secret.
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ContextKey:   ContextKey,
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) ||
		strings.EqualFold(err.Error(), "missing or malformed JWT") {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"title": "Bad Request", "status": fiber.StatusBadRequest, "detail": "Missing or malformed JWT"}, problemJSON)
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"title": "Unauthorized", "status": fiber.StatusUnauthorized, "detail": "Invalid or expired JWT"}, problemJSON)
}
