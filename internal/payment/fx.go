package payment

import (
	"github.com/balcaopos/comanda/internal/payment/repository"
	"github.com/balcaopos/comanda/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
