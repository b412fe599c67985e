// Package testutils provides a throwaway SQLite database wired to the real
// GORM repositories for service and handler tests.
package testutils

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/amirasaad/pointmarket/infra"
	infrarepo "github.com/amirasaad/pointmarket/infra/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with the schema migrated.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infra.AutoMigrate(db))
	return db
}

// NewTestUoW returns a UnitOfWork over a fresh test database.
func NewTestUoW(t testing.TB) (*infrarepo.UoW, *gorm.DB) {
	t.Helper()
	db := NewTestDB(t)
	return infrarepo.NewUoW(db), db
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
