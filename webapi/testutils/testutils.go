// Package testutils builds a fully wired HTTP app on an in-memory sqlite
// database for handler tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	infracache "github.com/amirasaad/pointmarket/infra/cache"
	infraeventbus "github.com/amirasaad/pointmarket/infra/eventbus"
	"github.com/amirasaad/pointmarket/infra/notify"
	"github.com/amirasaad/pointmarket/internal/testutils"
	"github.com/amirasaad/pointmarket/pkg/app"
	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/amirasaad/pointmarket/pkg/repository"
	"github.com/amirasaad/pointmarket/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// AdminID is the administrative principal configured for test apps.
const AdminID = "admin"

// Server bundles the fiber app with the services behind it.
type Server struct {
	Fiber  *fiber.App
	App    *app.App
	Bus    *infraeventbus.MemoryEventBus
	Config *config.App
}

// Option adjusts the configuration before the app is built.
type Option func(*config.App)

// WithRateLimit overrides the per-IP request budget.
func WithRateLimit(maxRequests int, window time.Duration) Option {
	return func(c *config.App) {
		c.RateLimit = &config.RateLimit{MaxRequests: maxRequests, Window: window}
	}
}

// Config returns the configuration used by NewServer.
func Config() *config.App {
	return &config.App{
		Env:         "test",
		Server:      &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:         &config.Log{},
		DB:          &config.DB{},
		Auth:        &config.Auth{Jwt: &config.Jwt{Secret: "test-secret", Expiry: time.Hour}},
		Redis:       &config.Redis{},
		RateLimit:   &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		Market:      &config.Market{AdminIDs: []string{AdminID}, AllowedLinkSchemes: []string{"https://", "http://"}, BlockedRecipients: []string{"bot"}, ListLimit: 25},
		Reward:      &config.Reward{DailyAmount: 10, Timezone: "UTC"},
		Leaderboard: &config.Leaderboard{Limit: 10, CacheTTL: time.Minute},
		Notify:      &config.Notify{Timeout: time.Second},
	}
}

// NewServer wires the app on a fresh sqlite database.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()
	uow, _ := testutils.NewTestUoW(t)
	return NewServerWithUoW(t, uow, opts...)
}

// NewServerWithUoW wires the app on the given unit of work.
func NewServerWithUoW(t testing.TB, uow repository.UnitOfWork, opts ...Option) *Server {
	t.Helper()
	cfg := Config()
	for _, opt := range opts {
		opt(cfg)
	}
	logger := testutils.DiscardLogger()
	bus := infraeventbus.NewWithMemory(logger)
	a := app.New(&app.Deps{
		Uow:      uow,
		EventBus: bus,
		Cache:    infracache.NewMemoryCache(),
		Sender:   notify.NewLogSender(logger),
		Logger:   logger,
	}, cfg)
	return &Server{Fiber: webapi.SetupApp(a), App: a, Bus: bus, Config: cfg}
}

// Token mints a bearer token for userID.
func (s *Server) Token(t testing.TB, userID string) string {
	t.Helper()
	token, err := s.App.AuthService.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

// MakeRequest is a helper for making HTTP requests in tests
func (s *Server) MakeRequest(t testing.TB, method, path, body, token string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.Fiber.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// Decode reads a JSON body into T.
func Decode[T any](t testing.TB, resp *http.Response) T {
	t.Helper()
	var out T
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

// Envelope mirrors common.Response with a typed payload.
type Envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}
