package addition

import (
	"github.com/balcaopos/comanda/internal/addition/repository"
	"github.com/balcaopos/comanda/internal/addition/service"
	"go.uber.org/fx"
)

var Module = fx.Module("addition.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
