package order

import (
	"github.com/balcaopos/comanda/internal/order/repository"
	"github.com/balcaopos/comanda/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
