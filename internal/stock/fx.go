package stock

import "go.uber.org/fx"

var Module = fx.Module("stock.ledger",
	fx.Provide(NewLedger),
)
