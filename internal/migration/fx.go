package migration

import (
	"github.com/nearme-labs/nearme/internal/config"
	merchantdomain "github.com/nearme-labs/nearme/internal/merchant/domain"
	prdomain "github.com/nearme-labs/nearme/internal/paymentrequest/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// Non-postgres deployments (sqlite for local hacking,
			// mysql) get the schema from gorm directly.
			return conn.AutoMigrate(
				&merchantdomain.Merchant{},
				&prdomain.PaymentRequest{},
				&prdomain.TransactionRecord{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
