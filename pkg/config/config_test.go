package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "market.db", cfg.DB.Url)
	assert.Equal(t, 24*time.Hour, cfg.Auth.Jwt.Expiry)
	assert.Equal(t, []string{"https://", "http://"}, cfg.Market.AllowedLinkSchemes)
	assert.Empty(t, cfg.Market.AdminIDs)
	assert.Equal(t, int64(10), cfg.Reward.DailyAmount)
	assert.Equal(t, time.UTC, cfg.Reward.Location())
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "AUTH_JWT_SECRET=from-file\n" +
		"MARKET_ADMIN_IDS=admin-1,admin-2\n" +
		"REWARD_TIMEZONE=Europe/Warsaw\n" +
		"REWARD_DAILY_AMOUNT=25\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte(content), 0o600))
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	// godotenv does not override variables that are already set
	for _, k := range []string{"AUTH_JWT_SECRET", "MARKET_ADMIN_IDS", "REWARD_TIMEZONE", "REWARD_DAILY_AMOUNT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load(".env.test")
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Auth.Jwt.Secret)
	assert.True(t, cfg.Market.IsAdmin("admin-2"))
	assert.False(t, cfg.Market.IsAdmin("user"))
	assert.False(t, cfg.Market.IsAdmin(""))
	assert.Equal(t, int64(25), cfg.Reward.DailyAmount)
	assert.Equal(t, "Europe/Warsaw", cfg.Reward.Location().String())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("AUTH_JWT_SECRET"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("REWARD_TIMEZONE", "Not/AZone")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REWARD_TIMEZONE")
}

func TestReward_LocationFallback(t *testing.T) {
	r := &Reward{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, r.Location())
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "", maskValue(""))
	assert.Equal(t, "****", maskValue("abc"))
	assert.Equal(t, "po****5432", maskValue("postgres://u:p@h:5432"))
}

func TestFindEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("X=1"), 0o600))
	t.Chdir(dir)

	path, err := FindEnvFile("")
	require.NoError(t, err)
	assert.Equal(t, ".env", filepath.Base(path))

	_, err = FindEnvFile(".missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
