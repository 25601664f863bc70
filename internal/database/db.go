package database

import (
	"fmt"
	"log/slog"
	"time"

	"solar-dealer-hub/internal/config"
	"solar-dealer-hub/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

const connectAttempts = 5

// Connect opens the database named by cfg, waiting for it to come up, and syncs the schema.
func Connect(cfg config.DatabaseConfig, verbose bool) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database: DB_DSN is not configured")
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if verbose {
		level = logger.Info
	}

	var db *gorm.DB
	// The database container may still be starting, give it a few tries
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger:         logger.Default.LogMode(level),
			TranslateError: true,
		})
		if err == nil {
			break
		}
		slog.Warn("database not ready, retrying", "attempt", i+1, "of", connectAttempts, "err", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("database: connect after %d attempts: %w", connectAttempts, err)
	}

	if cfg.Driver == "mysql" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("database: pool: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	slog.Info("database connected", "driver", cfg.Driver)
	DB = db
	return db, nil
}

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}
	return nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	case "sqlite", "":
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.Driver)
	}
}
