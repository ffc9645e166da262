package maintenance

import (
	"context"
	"time"

	"github.com/balcaopos/comanda/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewConfig(cfg config.Config) Config {
	out := DefaultConfig()
	out.Weekday = cfg.PurgeWeekday
	if cfg.PurgeAfterHour >= 0 && cfg.PurgeAfterHour <= 23 {
		out.AfterHour = cfg.PurgeAfterHour
	}
	if cfg.PurgeInterval > 0 {
		out.Interval = cfg.PurgeInterval
	}
	return out
}

// registerHooks runs a background sweep so purging still happens on quiet
// nights with no read traffic to trigger it.
func registerHooks(lc fx.Lifecycle, purger *Purger, log *zap.Logger) {
	logger := log.Named("maintenance.loop")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(purger.cfg.Interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if _, err := purger.MaybeRun(ctx); err != nil {
							logger.Warn("purge sweep failed", zap.Error(err))
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}

var Module = fx.Module("maintenance",
	fx.Provide(NewConfig),
	fx.Provide(NewPurger),
	fx.Invoke(registerHooks),
)
