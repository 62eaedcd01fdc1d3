// Package db opens the gorm connection for the configured engine.
package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/inheritx/hr-portal/internal/config"
	"github.com/inheritx/hr-portal/internal/db/dsn"
	"github.com/inheritx/hr-portal/internal/db/models"
	"github.com/inheritx/hr-portal/internal/logger/adapter/stdlogger"
)

// ErrUnknownEngine is returned for a DB.GormEngine other than sqlite, mysql or postgres.
var ErrUnknownEngine = errors.New("unknown gorm engine")

const slowThreshold = 200 * time.Millisecond

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg config.DB) (gorm.Dialector, error) {
	switch cfg.GormEngine {
	case "", "sqlite":
		return sqlite.Open(dsn.SQLite(cfg)), nil
	case "mysql":
		return mysql.Open(dsn.MySQL(cfg)), nil
	case "postgres":
		return postgres.Open(dsn.Postgres(cfg)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, cfg.GormEngine)
	}
}

// Open connects to the database and migrates the portal models.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DB)
	if err != nil {
		return nil, err
	}

	logLevel := gormlogger.Warn
	if cfg.DevMode {
		logLevel = gormlogger.Info
	}

	gormLog := gormlogger.New(
		stdlogger.New("gorm").WithLevel(zerolog.WarnLevel),
		gormlogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		},
	)

	conn, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = conn.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return conn, nil
}
