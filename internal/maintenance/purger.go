// Package maintenance houses the weekly purge: late on the designated day it
// detaches codes from closed orders so every physical code starts the new
// week free, while the financial rows stay behind for history.
package maintenance

import (
	"context"
	"time"

	"github.com/balcaopos/comanda/internal/cache"
	"github.com/balcaopos/comanda/internal/clock"
	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config pins the purge window and the background sweep cadence.
type Config struct {
	Weekday   time.Weekday
	AfterHour int
	Interval  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Weekday:   time.Sunday,
		AfterHour: 23,
		Interval:  5 * time.Minute,
	}
}

type Purger struct {
	log    *zap.Logger
	db     *gorm.DB
	clk    clock.Clock
	cfg    Config
	orders orderdomain.Repository
	codes  codedomain.Repository
	cache  *cache.Store
}

func NewPurger(log *zap.Logger, db *gorm.DB, clk clock.Clock, cfg Config, orders orderdomain.Repository, codes codedomain.Repository, store *cache.Store) *Purger {
	return &Purger{
		log:    log.Named("maintenance.purger"),
		db:     db,
		clk:    clk,
		cfg:    cfg,
		orders: orders,
		codes:  codes,
		cache:  store,
	}
}

// Due reports whether the purge window is open.
func (p *Purger) Due() bool {
	now := p.clk.Now()
	return now.Weekday() == p.cfg.Weekday && now.Hour() >= p.cfg.AfterHour
}

// MaybeRun purges only inside the window. Read paths call this
// opportunistically; outside the window it is a cheap clock check.
func (p *Purger) MaybeRun(ctx context.Context) (int, error) {
	if !p.Due() {
		return 0, nil
	}
	return p.Run(ctx)
}

// Run detaches codes from ENTREGUE/CANCELADO orders and releases the
// underlying code records. Idempotent: a second run finds nothing.
func (p *Purger) Run(ctx context.Context) (int, error) {
	released := 0
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders, err := p.orders.ListTerminalAttached(ctx, tx)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return nil
		}

		seen := make(map[string]struct{})
		var codes []string
		for i := range orders {
			if orders[i].CodeRef != nil {
				code := *orders[i].CodeRef
				if _, dup := seen[code]; !dup {
					seen[code] = struct{}{}
					codes = append(codes, code)
				}
			}
			orders[i].CodeRef = nil
			if err := p.orders.Save(ctx, tx, &orders[i]); err != nil {
				return err
			}
		}
		if err := p.codes.Release(ctx, tx, codes...); err != nil {
			return err
		}
		released = len(codes)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if released > 0 {
		p.cache.Invalidate()
		p.log.Info("weekly purge released codes", zap.Int("codes", released))
	}
	return released, nil
}
