package app

import (
	"log/slog"

	"github.com/amirasaad/pointmarket/pkg/cache"
	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/amirasaad/pointmarket/pkg/eventbus"
	"github.com/amirasaad/pointmarket/pkg/notifier"
	"github.com/amirasaad/pointmarket/pkg/repository"
	"github.com/amirasaad/pointmarket/pkg/service/auth"
	"github.com/amirasaad/pointmarket/pkg/service/leaderboard"
	"github.com/amirasaad/pointmarket/pkg/service/ledger"
	"github.com/amirasaad/pointmarket/pkg/service/market"
	"github.com/amirasaad/pointmarket/pkg/service/reward"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.Bus
	Cache    cache.LeaderboardCache
	Sender   notifier.Sender
	Logger   *slog.Logger
}

type App struct {
	Deps               *Deps
	Config             *config.App
	AuthService        *auth.Service
	LedgerService      *ledger.Service
	MarketService      *market.Service
	RewardService      *reward.Service
	LeaderboardService *leaderboard.Service
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.setupEventBus()

	app.AuthService = auth.New(cfg.Auth.Jwt, deps.Logger)
	// Mutations invalidate through the leaderboard service, which also
	// detaches in-flight reads.
	app.LeaderboardService = leaderboard.New(deps.Uow, deps.Cache, cfg.Leaderboard, deps.Logger)
	board := app.LeaderboardService
	app.LedgerService = ledger.New(deps.Uow, deps.EventBus, board, cfg.Market, deps.Logger)
	app.MarketService = market.New(deps.Uow, deps.EventBus, board, cfg.Market, deps.Logger)
	app.RewardService = reward.New(deps.Uow, deps.EventBus, board, cfg.Reward, deps.Logger)
	return app
}
