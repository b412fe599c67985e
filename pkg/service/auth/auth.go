// Package auth issues and reads the bearer tokens that identify callers of
// the HTTP API. Accounts are keyed by the chat platform's user id, so a token
// only needs to carry that id.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned when a token is missing, invalid, or carries no user id.
var ErrUnauthorized = errors.New("user unauthorized")

const userIDClaim = "user_id"

type Service struct {
	cfg    *config.Jwt
	now    func() time.Time
	logger *slog.Logger
}

func New(cfg *config.Jwt, logger *slog.Logger) *Service {
	return &Service{cfg: cfg, now: time.Now, logger: logger}
}

// GenerateToken signs an HS256 token for userID that expires after the
// configured expiry.
func (s *Service) GenerateToken(userID string) (string, error) {
	log := s.logger.With("userID", userID)
	log.Debug("GenerateToken called")
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("%w: empty user id", ErrUnauthorized)
	}
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims[userIDClaim] = userID
	claims["iat"] = s.now().Unix()
	claims["exp"] = s.now().Add(s.cfg.Expiry).Unix()
	tokenString, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		log.Error("GenerateToken failed", "error", err)
		return "", err
	}
	log.Info("GenerateToken successful")
	return tokenString, nil
}

// GetCurrentUserID extracts the user id from a token already verified by the
// JWT middleware.
func (s *Service) GetCurrentUserID(token *jwt.Token) (string, error) {
	log := s.logger.With("context", "GetCurrentUserID")
	if token == nil {
		log.Warn("GetCurrentUserID failed", "error", ErrUnauthorized)
		return "", ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		log.Warn("GetCurrentUserID failed", "error", ErrUnauthorized)
		return "", ErrUnauthorized
	}
	userID, ok := claims[userIDClaim].(string)
	if !ok || strings.TrimSpace(userID) == "" {
		log.Warn("GetCurrentUserID failed", "error", ErrUnauthorized)
		return "", ErrUnauthorized
	}
	return userID, nil
}

// ParseToken verifies a raw token string and returns its user id. The CLI
// uses it to check tokens it minted.
func (s *Service) ParseToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return s.GetCurrentUserID(token)
}
