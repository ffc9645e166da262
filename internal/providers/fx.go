package providers

import (
	"github.com/balcaopos/comanda/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
)
