package initializer

import (
	"fmt"
	"log/slog"

	"github.com/amirasaad/pointmarket/infra"
	infra_cache "github.com/amirasaad/pointmarket/infra/cache"
	infra_eventbus "github.com/amirasaad/pointmarket/infra/eventbus"
	"github.com/amirasaad/pointmarket/infra/notify"
	infra_repository "github.com/amirasaad/pointmarket/infra/repository"
	"github.com/amirasaad/pointmarket/pkg/app"
	"github.com/amirasaad/pointmarket/pkg/cache"
	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/amirasaad/pointmarket/pkg/domain/events"
	"github.com/amirasaad/pointmarket/pkg/eventbus"
	"github.com/amirasaad/pointmarket/pkg/notifier"
)

// Option adjusts how dependencies are built.
type Option func(*options)

type options struct {
	syncBus bool
}

// WithSyncEventBus makes the in-process event bus deliver before Emit
// returns. Short-lived processes use it so handlers run before exit.
func WithSyncEventBus() Option {
	return func(o *options) { o.syncBus = true }
}

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App, opts ...Option) (
	deps *app.Deps,
	err error,
) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	deps = &app.Deps{}
	logger := SetupLogger(cfg.Log)
	deps.Logger = logger

	// Initialize database
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	if err = infra.Migrate(db, cfg.DB, logger); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize unit of work
	deps.Uow = infra_repository.NewUoW(db)

	deps.EventBus = initEventBus(cfg, logger, o.syncBus)
	deps.Cache = initCache(cfg, logger)
	deps.Sender = initSender(cfg, logger)
	return
}

// initEventBus prefers Redis streams when a URL is configured and falls back
// to an in-process bus when Redis is unset or unreachable.
func initEventBus(cfg *config.App, logger *slog.Logger, syncBus bool) eventbus.Bus {
	if cfg.Redis == nil || cfg.Redis.URL == "" {
		return memoryBus(logger, syncBus)
	}
	bus, err := infra_eventbus.NewWithRedis(
		cfg.Redis.URL,
		cfg.Redis.Stream,
		cfg.Redis.Group,
		events.EventTypes,
		logger,
	)
	if err != nil {
		logger.Warn("Redis event bus unavailable, falling back to in-memory", "error", err)
		return memoryBus(logger, syncBus)
	}
	logger.Info("Using Redis event bus", "stream", cfg.Redis.Stream, "group", cfg.Redis.Group)
	return bus
}

func memoryBus(logger *slog.Logger, syncBus bool) eventbus.Bus {
	if syncBus {
		logger.Info("Using in-memory event bus")
		return infra_eventbus.NewWithMemory(logger)
	}
	logger.Info("Using in-memory async event bus")
	return infra_eventbus.NewWithMemoryAsync(logger)
}

func initCache(cfg *config.App, logger *slog.Logger) cache.LeaderboardCache {
	if cfg.Redis == nil || cfg.Redis.URL == "" {
		return infra_cache.NewMemoryCache()
	}
	c, err := infra_cache.NewRedisLeaderboardCache(cfg.Redis.URL, cfg.Redis.KeyPrefix, logger)
	if err != nil {
		logger.Warn("Redis cache unavailable, falling back to in-memory", "error", err)
		return infra_cache.NewMemoryCache()
	}
	return c
}

func initSender(cfg *config.App, logger *slog.Logger) notifier.Sender {
	if cfg.Notify == nil || cfg.Notify.WebhookURL == "" {
		return notify.NewLogSender(logger)
	}
	return notify.NewWebhookSender(cfg.Notify.WebhookURL, cfg.Notify.Timeout, logger)
}
