package database

import (
	"errors"
	"fmt"
	"log/slog"

	"solar-dealer-hub/internal/auth"
	"solar-dealer-hub/internal/config"
	"solar-dealer-hub/internal/models"

	"gorm.io/gorm"
)

// SeedAdmin creates the first admin account when ADMIN_PASSWORD is set and the user does not exist yet.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig) error {
	if cfg.Password == "" {
		slog.Info("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.User
	err := db.Where("username = ?", cfg.Username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}

	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	admin := models.User{
		Username:     cfg.Username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	slog.Info("admin user seeded", "username", admin.Username)
	return nil
}
