package infra

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date. Postgres deployments with a
// migrations directory use versioned SQL migrations; everything else
// falls back to GORM's AutoMigrate.
func Migrate(db *gorm.DB, cnf *config.DB, logger *slog.Logger) error {
	if ResolveDriver(cnf) == DriverPostgres && cnf.MigrationsPath != "" {
		logger.Info("Running SQL migrations", "path", cnf.MigrationsPath)
		return RunMigrations(db, cnf.MigrationsPath)
	}
	logger.Info("Running auto migration")
	return AutoMigrate(db)
}

// RunMigrations applies the SQL migrations found in path to a Postgres database.
func RunMigrations(db *gorm.DB, path string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	driver, err := migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{})
	if err != nil {
		return fmt.Errorf("migrate: driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate: source: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: up: %w", err)
	}
	return nil
}
