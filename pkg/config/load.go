package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the first environment file found among envFilePath (searched
// upwards from the working directory), falls back to ./.env, and then
// processes the environment into an App.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	for _, path := range envFilePath {
		foundPath, err := FindEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		logger.Info("Loaded environment from file", "path", foundPath)
		return loadFromEnv()
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found in current directory")
	}
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.Auth.Jwt.Secret == "" {
		return nil, errors.New("AUTH_JWT_SECRET must not be empty")
	}
	if _, err := time.LoadLocation(cfg.Reward.Timezone); err != nil {
		return nil, fmt.Errorf("REWARD_TIMEZONE %q: %w", cfg.Reward.Timezone, err)
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"db_driver", cfg.DB.Driver,
		"redis", maskValue(cfg.Redis.URL),
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"auth_jwt_expiry", cfg.Auth.Jwt.Expiry,
		"admins", len(cfg.Market.AdminIDs),
		"reward_daily_amount", cfg.Reward.DailyAmount,
		"reward_timezone", cfg.Reward.Timezone,
		"notify_webhook", maskValue(cfg.Notify.WebhookURL),
	)
	return &cfg, nil
}

func maskValue(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
