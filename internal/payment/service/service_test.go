package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/balcaopos/comanda/internal/cache"
	"github.com/balcaopos/comanda/internal/clock"
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	paymentdomain "github.com/balcaopos/comanda/internal/payment/domain"
	"github.com/balcaopos/comanda/internal/payment/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	clk   *clock.FakeClock
	store *cache.Store
	svc   paymentdomain.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&orderdomain.Order{},
		&orderdomain.Item{},
		&orderdomain.ItemAddition{},
		&paymentdomain.Payment{},
	))

	clk := clock.NewFakeClock(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC))
	store := cache.NewStore(clk, cache.DefaultConfig())

	svc := NewService(serviceParams{
		Log:   zap.NewNop(),
		DB:    db,
		Clock: clk,
		Repo:  repository.NewRepository(db),
		Cache: store,
	})

	return &env{
		t:     t,
		ctx:   context.Background(),
		db:    db,
		clk:   clk,
		store: store,
		svc:   svc,
	}
}

func (e *env) seedOrder(total string) int64 {
	e.t.Helper()
	order := &orderdomain.Order{
		Status:       orderdomain.StatusEmPreparo,
		DeliveryType: orderdomain.DeliveryRetirada,
		Total:        decimal.RequireFromString(total),
	}
	require.NoError(e.t, e.db.Create(order).Error)
	return order.ID
}

func TestCreateApprovesImmediately(t *testing.T) {
	e := newEnv(t)
	orderID := e.seedOrder("30.00")

	resp, err := e.svc.Create(e.ctx, paymentdomain.CreateRequest{
		OrderID: orderID,
		Method:  "dinheiro",
		Amount:  decimal.RequireFromString("12.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.StatusAprovado, resp.Status)
	assert.Equal(t, paymentdomain.MethodDinheiro, resp.Method)
	assert.Nil(t, resp.ExternalRef)

	_, summary, err := e.svc.ListByOrder(e.ctx, orderID)
	require.NoError(t, err)
	assert.True(t, summary.Paid.Equal(decimal.RequireFromString("12.50")))
	assert.True(t, summary.Outstanding.Equal(decimal.RequireFromString("17.50")))
}

func TestCreateValidation(t *testing.T) {
	e := newEnv(t)
	orderID := e.seedOrder("10.00")

	_, err := e.svc.Create(e.ctx, paymentdomain.CreateRequest{
		OrderID: orderID,
		Method:  "cheque",
		Amount:  decimal.RequireFromString("5.00"),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidMethod)

	_, err = e.svc.Create(e.ctx, paymentdomain.CreateRequest{
		OrderID: orderID,
		Method:  "pix",
		Amount:  decimal.Zero,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidAmount)

	_, err = e.svc.Create(e.ctx, paymentdomain.CreateRequest{
		OrderID: orderID,
		Method:  "pix",
		Amount:  decimal.RequireFromString("10.01"),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrOverpayment)

	_, err = e.svc.Create(e.ctx, paymentdomain.CreateRequest{
		OrderID: 999,
		Method:  "pix",
		Amount:  decimal.RequireFromString("1.00"),
	})
	assert.ErrorIs(t, err, orderdomain.ErrNotFound)
}

func TestOverpaymentCountsOnlyApproved(t *testing.T) {
	e := newEnv(t)
	orderID := e.seedOrder("20.00")

	// A pending terminal payment reserves nothing.
	_, err := e.svc.StartTerminal(e.ctx, paymentdomain.TerminalRequest{
		OrderID: orderID,
		Method:  "cartao_credito",
		Amount:  decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)

	_, err = e.svc.Create(e.ctx, paymentdomain.CreateRequest{
		OrderID: orderID,
		Method:  "dinheiro",
		Amount:  decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)

	_, summary, err := e.svc.ListByOrder(e.ctx, orderID)
	require.NoError(t, err)
	assert.True(t, summary.Outstanding.IsZero())
}

func TestStartTerminalRejectsCash(t *testing.T) {
	e := newEnv(t)
	orderID := e.seedOrder("15.00")

	_, err := e.svc.StartTerminal(e.ctx, paymentdomain.TerminalRequest{
		OrderID: orderID,
		Method:  "dinheiro",
		Amount:  decimal.RequireFromString("15.00"),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrNotTerminal)
}

func TestTerminalLifecycleViaConfirm(t *testing.T) {
	e := newEnv(t)
	orderID := e.seedOrder("40.00")

	started, err := e.svc.StartTerminal(e.ctx, paymentdomain.TerminalRequest{
		OrderID: orderID,
		Method:  "cartao_debito",
		Amount:  decimal.RequireFromString("40.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.StatusPendente, started.Status)
	require.NotNil(t, started.ExternalRef)
	assert.Contains(t, *started.ExternalRef, "TX-")

	confirmed, err := e.svc.ConfirmTerminal(e.ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.StatusAprovado, confirmed.Status)

	// Confirming twice fails: the payment is no longer pending.
	_, err = e.svc.ConfirmTerminal(e.ctx, started.ID)
	assert.ErrorIs(t, err, paymentdomain.ErrNotPending)

	_, summary, err := e.svc.ListByOrder(e.ctx, orderID)
	require.NoError(t, err)
	assert.True(t, summary.Outstanding.IsZero())
}

func TestCallbackSettlesByReference(t *testing.T) {
	e := newEnv(t)
	orderID := e.seedOrder("25.00")

	started, err := e.svc.StartTerminal(e.ctx, paymentdomain.TerminalRequest{
		OrderID: orderID,
		Method:  "pix",
		Amount:  decimal.RequireFromString("25.00"),
	})
	require.NoError(t, err)

	settled, err := e.svc.Callback(e.ctx, paymentdomain.CallbackRequest{
		Reference: *started.ExternalRef,
		Status:    "recusado",
	})
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.StatusRecusado, settled.Status)

	// Retried notifications keep the first outcome.
	replayed, err := e.svc.Callback(e.ctx, paymentdomain.CallbackRequest{
		Reference: *started.ExternalRef,
		Status:    "aprovado",
	})
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.StatusRecusado, replayed.Status)

	_, summary, err := e.svc.ListByOrder(e.ctx, orderID)
	require.NoError(t, err)
	assert.True(t, summary.Paid.IsZero())
}

func TestCallbackValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Callback(e.ctx, paymentdomain.CallbackRequest{
		Reference: "TX-UNKNOWN",
		Status:    "aprovado",
	})
	assert.ErrorIs(t, err, paymentdomain.ErrRefNotFound)

	_, err = e.svc.Callback(e.ctx, paymentdomain.CallbackRequest{
		Reference: "TX-UNKNOWN",
		Status:    "pendente",
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidStatus)
}

func TestPaymentMutationsInvalidateReadCache(t *testing.T) {
	e := newEnv(t)
	orderID := e.seedOrder("10.00")

	// Keys embed the store generation, so a bump shows up as a new key.
	before := e.store.Key("order.detail", orderID)
	_, err := e.svc.Create(e.ctx, paymentdomain.CreateRequest{
		OrderID: orderID,
		Method:  "pix",
		Amount:  decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, before, e.store.Key("order.detail", orderID))
}
