package service

import (
	"context"
	"errors"
	"strings"

	"github.com/balcaopos/comanda/internal/cache"
	"github.com/balcaopos/comanda/internal/clock"
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	paymentdomain "github.com/balcaopos/comanda/internal/payment/domain"
	"github.com/balcaopos/comanda/pkg/money"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serviceParams struct {
	fx.In

	Log   *zap.Logger
	DB    *gorm.DB
	Clock clock.Clock
	Repo  paymentdomain.Repository
	Cache *cache.Store
}

type Service struct {
	log   *zap.Logger
	db    *gorm.DB
	clk   clock.Clock
	repo  paymentdomain.Repository
	cache *cache.Store
}

func NewService(p serviceParams) paymentdomain.Service {
	return &Service{
		log:   p.Log.Named("payment.service"),
		db:    p.DB,
		clk:   p.Clock,
		repo:  p.Repo,
		cache: p.Cache,
	}
}

func (s *Service) Create(ctx context.Context, req paymentdomain.CreateRequest) (*paymentdomain.Response, error) {
	method, err := paymentdomain.ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	var record *paymentdomain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err = s.open(ctx, tx, req.OrderID, method, req.Amount, paymentdomain.StatusAprovado, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("payment recorded",
		zap.Int64("order_id", record.OrderID),
		zap.String("method", string(record.Method)),
		zap.String("amount", record.Amount.StringFixed(2)),
	)

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) StartTerminal(ctx context.Context, req paymentdomain.TerminalRequest) (*paymentdomain.Response, error) {
	method, err := paymentdomain.ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}
	if !method.Terminal() {
		return nil, paymentdomain.ErrNotTerminal
	}

	ref := "TX-" + ulid.MustNew(ulid.Timestamp(s.clk.Now()), ulid.DefaultEntropy()).String()

	var record *paymentdomain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err = s.open(ctx, tx, req.OrderID, method, req.Amount, paymentdomain.StatusPendente, &ref)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("terminal payment started",
		zap.Int64("order_id", record.OrderID),
		zap.String("external_ref", ref),
	)

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) ConfirmTerminal(ctx context.Context, id int64) (*paymentdomain.Response, error) {
	var record *paymentdomain.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return paymentdomain.ErrNotFound
		}
		if existing.Status != paymentdomain.StatusPendente {
			return paymentdomain.ErrNotPending
		}

		existing.Status = paymentdomain.StatusAprovado
		record = existing
		return s.repo.Save(ctx, tx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Callback(ctx context.Context, req paymentdomain.CallbackRequest) (*paymentdomain.Response, error) {
	status := paymentdomain.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	if status != paymentdomain.StatusAprovado && status != paymentdomain.StatusRecusado {
		return nil, paymentdomain.ErrInvalidStatus
	}

	var record *paymentdomain.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByRef(ctx, tx, strings.TrimSpace(req.Reference))
		if err != nil {
			return err
		}
		if existing == nil {
			return paymentdomain.ErrRefNotFound
		}
		if existing.Status != paymentdomain.StatusPendente {
			// Terminal retries its notification; the first outcome wins.
			record = existing
			return nil
		}

		existing.Status = status
		record = existing
		return s.repo.Save(ctx, tx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("terminal callback settled",
		zap.String("external_ref", strings.TrimSpace(req.Reference)),
		zap.String("status", string(record.Status)),
	)

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) ListByOrder(ctx context.Context, orderID int64) ([]paymentdomain.Response, *paymentdomain.Summary, error) {
	var order orderdomain.Order
	err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, orderdomain.ErrNotFound
		}
		return nil, nil, err
	}

	payments, err := s.repo.ListByOrder(ctx, nil, orderID)
	if err != nil {
		return nil, nil, err
	}

	resp := make([]paymentdomain.Response, 0, len(payments))
	for i := range payments {
		resp = append(resp, toResponse(&payments[i]))
	}
	summary := paymentdomain.Summarize(order.Total, payments)
	return resp, &summary, nil
}

// open validates the order and the amount against the outstanding balance and
// inserts the payment row. Runs inside the caller's transaction.
func (s *Service) open(ctx context.Context, tx *gorm.DB, orderID int64, method paymentdomain.Method, amount decimal.Decimal, status paymentdomain.Status, ref *string) (*paymentdomain.Payment, error) {
	var order orderdomain.Order
	if err := tx.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderdomain.ErrNotFound
		}
		return nil, err
	}

	amount = money.Round(amount)
	if !amount.IsPositive() {
		return nil, paymentdomain.ErrInvalidAmount
	}

	existing, err := s.repo.ListByOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	outstanding := paymentdomain.Summarize(order.Total, existing).Outstanding
	if amount.GreaterThan(outstanding) {
		return nil, paymentdomain.ErrOverpayment
	}

	record := &paymentdomain.Payment{
		OrderID:     orderID,
		Method:      method,
		Amount:      amount,
		Status:      status,
		ExternalRef: ref,
	}
	if err := s.repo.Create(ctx, tx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func toResponse(p *paymentdomain.Payment) paymentdomain.Response {
	return paymentdomain.Response{
		ID:          p.ID,
		OrderID:     p.OrderID,
		Method:      p.Method,
		Amount:      p.Amount,
		Status:      p.Status,
		ExternalRef: p.ExternalRef,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
