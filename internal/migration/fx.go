package migration

import (
	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	"github.com/balcaopos/comanda/internal/config"
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	paymentdomain "github.com/balcaopos/comanda/internal/payment/domain"
	productdomain "github.com/balcaopos/comanda/internal/product/domain"
	"github.com/balcaopos/comanda/internal/seed"
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
			if err := conn.AutoMigrate(
				&codedomain.CodeRecord{},
				&additiondomain.Addition{},
				&productdomain.Product{},
				&orderdomain.Order{},
				&orderdomain.Item{},
				&orderdomain.ItemAddition{},
				&orderdomain.KitchenSnapshot{},
				&paymentdomain.Payment{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedOnStartup {
			return seed.EnsureDefaults(conn)
		}
		return nil
	}),
)
