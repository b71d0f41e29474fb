// Package seed bootstraps the first elevated account so a fresh deployment
// is reachable without manual database edits.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/trucomm/trucomm/internal/auth/domain"
	"github.com/trucomm/trucomm/internal/auth/password"
	"github.com/trucomm/trucomm/internal/config"
	"gorm.io/gorm"
)

// EnsureDefaultSuperAdmin creates the bootstrap super admin when no elevated
// account exists yet. It is idempotent across restarts.
func EnsureDefaultSuperAdmin(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if cfg.BootstrapSuperAdminUsername == "" || cfg.BootstrapSuperAdminPassword == "" {
		return errors.New("bootstrap super admin requires username and password")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&authdomain.SuperAdmin{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hashed, err := password.Hash(cfg.BootstrapSuperAdminPassword)
		if err != nil {
			return err
		}
		mmid, err := authdomain.NewMMID()
		if err != nil {
			return err
		}

		username := strings.ToLower(cfg.BootstrapSuperAdminUsername)
		now := time.Now().UTC()
		admin := authdomain.SuperAdmin{
			ID:                 node.Generate(),
			Username:           username,
			Email:              strings.ToLower(cfg.BootstrapSuperAdminEmail),
			SoftwareLoginEmail: authdomain.LoginEmail(username, mmid),
			PasswordHash:       hashed,
			IsActive:           true,
			MMID:               mmid,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		return tx.Create(&admin).Error
	})
}
