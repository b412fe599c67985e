package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/pointmarket/infra/repository/model"
	"github.com/amirasaad/pointmarket/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ResolveDriver returns the configured driver, inferring it from the URL scheme when unset.
func ResolveDriver(cnf *config.DB) string {
	if cnf.Driver != "" {
		return strings.ToLower(cnf.Driver)
	}
	if strings.HasPrefix(cnf.Url, "postgres://") || strings.HasPrefix(cnf.Url, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// NewDBConnection opens the configured database. Development environments log every query.
func NewDBConnection(cnf *config.DB, appEnv string) (*gorm.DB, error) {
	if cnf == nil || cnf.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}

	var dialector gorm.Dialector
	switch driver := ResolveDriver(cnf); driver {
	case DriverPostgres:
		dialector = postgres.Open(cnf.Url)
	case DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cnf.Url))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	connection, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	if dialector.Name() == DriverSQLite {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
	}
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}

// AutoMigrate creates or updates the accounts, listings and audit_entries tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}

func sqliteDSN(url string) string {
	url = strings.TrimPrefix(url, "sqlite://")
	if strings.Contains(url, "?") {
		return url
	}
	return url + "?_foreign_keys=on&_busy_timeout=5000"
}
