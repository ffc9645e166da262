package main

import (
	"github.com/balcaopos/comanda/internal/addition"
	"github.com/balcaopos/comanda/internal/cache"
	"github.com/balcaopos/comanda/internal/clock"
	"github.com/balcaopos/comanda/internal/code"
	"github.com/balcaopos/comanda/internal/config"
	"github.com/balcaopos/comanda/internal/logger"
	"github.com/balcaopos/comanda/internal/maintenance"
	"github.com/balcaopos/comanda/internal/migration"
	"github.com/balcaopos/comanda/internal/observability"
	"github.com/balcaopos/comanda/internal/order"
	"github.com/balcaopos/comanda/internal/payment"
	"github.com/balcaopos/comanda/internal/product"
	"github.com/balcaopos/comanda/internal/providers"
	"github.com/balcaopos/comanda/internal/server"
	"github.com/balcaopos/comanda/internal/stock"
	"github.com/balcaopos/comanda/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		clock.Module,
		db.Module,
		cache.Module,
		migration.Module,
		stock.Module,
		maintenance.Module,

		// domains
		code.Module,
		addition.Module,
		product.Module,
		payment.Module,
		order.Module,

		// outbound providers and the HTTP surface
		providers.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
