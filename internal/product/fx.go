package product

import (
	"github.com/balcaopos/comanda/internal/product/repository"
	"github.com/balcaopos/comanda/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
