package migration

import (
	authdomain "github.com/trucomm/trucomm/internal/auth/domain"
	"github.com/trucomm/trucomm/internal/config"
	"github.com/trucomm/trucomm/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite is only used for local development; gorm derives the
			// schema from the models there.
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.SuperAdmin{},
				&authdomain.Session{},
			); err != nil {
				return err
			}
		}

		if cfg.BootstrapSuperAdmin {
			return seed.EnsureDefaultSuperAdmin(conn, cfg)
		}
		return nil
	}),
)
