package cache

import (
	"github.com/balcaopos/comanda/internal/clock"
	"github.com/balcaopos/comanda/internal/config"
	"go.uber.org/fx"
)

func NewFromConfig(clk clock.Clock, cfg config.Config) *Store {
	return NewStore(clk, Config{
		TTL:        cfg.ReadCacheTTL,
		MaxEntries: cfg.ReadCacheMaxEntries,
	})
}

var Module = fx.Module("cache",
	fx.Provide(NewFromConfig),
)
