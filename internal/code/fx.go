package code

import (
	"github.com/balcaopos/comanda/internal/code/repository"
	"github.com/balcaopos/comanda/internal/code/service"
	"go.uber.org/fx"
)

var Module = fx.Module("code.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
