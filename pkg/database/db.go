// Package database opens the gorm connection used by the catalog service.
package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/catalog/config"
)

// Config describes a connection. Zero pool values fall back to the
// production defaults below.
type Config struct {
	Driver string
	DSN    string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// Debug logs every statement through gorm's logger.
	Debug bool
}

// ConfigFromEnv reads DB_DRIVER, DATABASE_DSN and DB_DEBUG.
func ConfigFromEnv() Config {
	return Config{
		Driver: config.DatabaseDriver(),
		DSN:    config.DatabaseDSN(),
		Debug:  config.DatabaseDebug(),
	}
}

// Open opens the database, configures the pool and pings it.
// Returns an error instead of calling log.Fatal so the caller can
// shut down gracefully.
func Open(cfg Config) (*gorm.DB, error) {
	dialector, err := buildDialector(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("database: build dialector: %w", err)
	}

	mode := gormlogger.Silent
	if cfg.Debug {
		mode = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(mode),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(orInt(cfg.MaxOpenConns, 25))
	sqlDB.SetMaxIdleConns(orInt(cfg.MaxIdleConns, 10))
	sqlDB.SetConnMaxLifetime(orDuration(cfg.ConnMaxLifetime, 5*time.Minute))
	sqlDB.SetConnMaxIdleTime(orDuration(cfg.ConnMaxIdleTime, 2*time.Minute))

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return db, nil
}

// Ping reports whether the underlying connection is usable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orDuration(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}
