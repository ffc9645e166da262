package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	additionrepo "github.com/balcaopos/comanda/internal/addition/repository"
	"github.com/balcaopos/comanda/internal/cache"
	"github.com/balcaopos/comanda/internal/clock"
	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	coderepo "github.com/balcaopos/comanda/internal/code/repository"
	"github.com/balcaopos/comanda/internal/maintenance"
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	orderrepo "github.com/balcaopos/comanda/internal/order/repository"
	paymentdomain "github.com/balcaopos/comanda/internal/payment/domain"
	paymentrepo "github.com/balcaopos/comanda/internal/payment/repository"
	productdomain "github.com/balcaopos/comanda/internal/product/domain"
	productrepo "github.com/balcaopos/comanda/internal/product/repository"
	"github.com/balcaopos/comanda/internal/stock"
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
	svc   orderdomain.Service
}

// newEnv wires the service against an in-memory database. The clock starts on
// a Wednesday at noon so the weekly purge window stays closed unless a test
// moves it.
func newEnv(t *testing.T) *env {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&additiondomain.Addition{},
		&productdomain.Product{},
		&codedomain.CodeRecord{},
		&orderdomain.Order{},
		&orderdomain.Item{},
		&orderdomain.ItemAddition{},
		&orderdomain.KitchenSnapshot{},
		&paymentdomain.Payment{},
	))

	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC))
	store := cache.NewStore(clk, cache.DefaultConfig())

	orders := orderrepo.NewRepository(db)
	codes := coderepo.NewRepository(db)
	products := productrepo.NewRepository(db)
	additions := additionrepo.NewRepository(db)
	payments := paymentrepo.NewRepository(db)

	svc := NewService(serviceParams{
		Log:       log,
		DB:        db,
		Clock:     clk,
		Repo:      orders,
		Codes:     codes,
		Products:  products,
		Additions: additions,
		Payments:  payments,
		Ledger:    stock.NewLedger(log),
		Cache:     store,
		Purger:    maintenance.NewPurger(log, db, clk, maintenance.DefaultConfig(), orders, codes, store),
	})

	return &env{t: t, ctx: context.Background(), db: db, clk: clk, store: store, svc: svc}
}

func (e *env) seedCode(code string) *codedomain.CodeRecord {
	e.t.Helper()
	record := &codedomain.CodeRecord{
		Code:         codedomain.NormalizeCode(code),
		Active:       true,
		VisualStatus: codedomain.VisualLiberado,
	}
	require.NoError(e.t, e.db.Create(record).Error)
	return record
}

func (e *env) seedProduct(name, price string, controlled bool, qty int) *productdomain.Product {
	e.t.Helper()
	product := &productdomain.Product{
		Name:            name,
		Price:           decimal.RequireFromString(price),
		Active:          true,
		StockControlled: controlled,
		StockQuantity:   qty,
	}
	require.NoError(e.t, e.db.Create(product).Error)
	return product
}

func (e *env) seedAddition(name, price string) *additiondomain.Addition {
	e.t.Helper()
	addition := &additiondomain.Addition{
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Active: true,
	}
	require.NoError(e.t, e.db.Create(addition).Error)
	return addition
}

func (e *env) openTab(code string) *orderdomain.Detail {
	e.t.Helper()
	detail, err := e.svc.OpenTab(e.ctx, orderdomain.OpenTabRequest{Code: code})
	require.NoError(e.t, err)
	return detail
}

func (e *env) stockOf(productID int64) int {
	e.t.Helper()
	var product productdomain.Product
	require.NoError(e.t, e.db.First(&product, "id = ?", productID).Error)
	return product.StockQuantity
}

func (e *env) codeRecord(code string) *codedomain.CodeRecord {
	e.t.Helper()
	var record codedomain.CodeRecord
	require.NoError(e.t, e.db.First(&record, "code = ?", codedomain.NormalizeCode(code)).Error)
	return &record
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestOpenTabBindsCode(t *testing.T) {
	e := newEnv(t)
	e.seedCode("C-010")

	detail := e.openTab("c-010")
	assert.Equal(t, "C-010", detail.Code)
	assert.Equal(t, orderdomain.StatusAberto, detail.Status)
	assert.Equal(t, orderdomain.DeliveryRetirada, detail.DeliveryType)
	assert.True(t, detail.Total.Equal(decimal.Zero))

	record := e.codeRecord("C-010")
	assert.True(t, record.InUse)
	assert.Equal(t, codedomain.VisualAberto, codedomain.NormalizeVisualStatus(string(record.VisualStatus)))
}

func TestOpenTabRejectsBusyCode(t *testing.T) {
	e := newEnv(t)
	e.seedCode("C-001")
	e.openTab("C-001")

	_, err := e.svc.OpenTab(e.ctx, orderdomain.OpenTabRequest{Code: "C-001"})
	assert.ErrorIs(t, err, codedomain.ErrCodeInUse)
}

func TestOpenTabRejectsInactiveCode(t *testing.T) {
	e := newEnv(t)
	record := e.seedCode("C-002")
	require.NoError(t, e.db.Model(record).Update("active", false).Error)

	_, err := e.svc.OpenTab(e.ctx, orderdomain.OpenTabRequest{Code: "C-002"})
	assert.ErrorIs(t, err, codedomain.ErrCodeInactive)
}

func TestOpenTabUnknownCode(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.OpenTab(e.ctx, orderdomain.OpenTabRequest{Code: "C-999"})
	assert.ErrorIs(t, err, codedomain.ErrNotFound)
}

func TestOpenTabDeliveryRequiresTable(t *testing.T) {
	e := newEnv(t)
	e.seedCode("C-003")

	_, err := e.svc.OpenTab(e.ctx, orderdomain.OpenTabRequest{
		Code:         "C-003",
		DeliveryType: "ENTREGA",
	})
	assert.ErrorIs(t, err, orderdomain.ErrTableRequired)

	detail, err := e.svc.OpenTab(e.ctx, orderdomain.OpenTabRequest{
		Code:         "C-003",
		DeliveryType: "entrega",
		Table:        strPtr("Mesa 4"),
	})
	require.NoError(t, err)
	assert.Equal(t, orderdomain.DeliveryEntrega, detail.DeliveryType)
	require.NotNil(t, detail.Table)
	assert.Equal(t, "Mesa 4", *detail.Table)
}

func TestGetServesCachedDetailUntilExpiry(t *testing.T) {
	e := newEnv(t)
	e.seedCode("C-004")
	detail := e.openTab("C-004")

	_, err := e.svc.Get(e.ctx, detail.ID)
	require.NoError(t, err)

	// Tamper behind the cache's back; within the TTL the stale copy wins.
	require.NoError(t, e.db.Model(&orderdomain.Order{}).
		Where("id = ?", detail.ID).
		Update("table_label", "Mesa 9").Error)

	cached, err := e.svc.Get(e.ctx, detail.ID)
	require.NoError(t, err)
	assert.Nil(t, cached.Table)

	e.clk.Advance(2 * time.Second)
	fresh, err := e.svc.Get(e.ctx, detail.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh.Table)
	assert.Equal(t, "Mesa 9", *fresh.Table)
}

func TestMutationInvalidatesCachedReads(t *testing.T) {
	e := newEnv(t)
	e.seedCode("C-005")
	product := e.seedProduct("Café coado", "6.00", false, 0)
	detail := e.openTab("C-005")

	list, err := e.svc.List(e.ctx, orderdomain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].TotalItems)

	_, err = e.svc.AddItem(e.ctx, detail.ID, orderdomain.ItemRequest{
		ProductID: product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)

	list, err = e.svc.List(e.ctx, orderdomain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].TotalItems)
	assert.True(t, list[0].Total.Equal(decimal.RequireFromString("12.00")))
}

func TestListRejectsInvalidSortAndRange(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.List(e.ctx, orderdomain.ListRequest{SortBy: "senha"})
	assert.ErrorIs(t, err, orderdomain.ErrInvalidSort)

	_, err = e.svc.List(e.ctx, orderdomain.ListRequest{SortBy: "id", OrderBy: "sideways"})
	assert.ErrorIs(t, err, orderdomain.ErrInvalidSort)

	low := decimal.RequireFromString("10.00")
	high := decimal.RequireFromString("5.00")
	_, err = e.svc.List(e.ctx, orderdomain.ListRequest{TotalMin: &low, TotalMax: &high})
	assert.ErrorIs(t, err, orderdomain.ErrInvalidTotalRange)
}

func TestPanelShowsLastOrderPerCode(t *testing.T) {
	e := newEnv(t)
	e.seedCode("C-001")
	e.seedCode("C-002")
	detail := e.openTab("C-001")

	rows, err := e.svc.Panel(e.ctx, false)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "C-001", rows[0].Code)
	assert.True(t, rows[0].InUse)
	require.NotNil(t, rows[0].OrderID)
	assert.Equal(t, detail.ID, *rows[0].OrderID)

	assert.Equal(t, "C-002", rows[1].Code)
	assert.False(t, rows[1].InUse)
	assert.Nil(t, rows[1].OrderID)
	assert.Equal(t, string(codedomain.VisualLiberado), rows[1].Status)
}

func TestHistoryOnlyFinalized(t *testing.T) {
	e := newEnv(t)
	e.seedCode("C-001")
	e.seedCode("C-002")
	open := e.openTab("C-001")
	cancelled := e.openTab("C-002")

	_, err := e.svc.ChangeStatus(e.ctx, cancelled.ID, orderdomain.ChangeStatusRequest{Status: "CANCELADO"})
	require.NoError(t, err)

	rows, err := e.svc.History(e.ctx, orderdomain.HistoryRequest{OnlyFinalized: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, cancelled.ID, rows[0].OrderID)
	assert.NotEqual(t, open.ID, rows[0].OrderID)
}

func TestDetachedOrderStaysReadable(t *testing.T) {
	e := newEnv(t)
	e.seedCode("C-001")
	product := e.seedProduct("Café", "5.00", false, 0)
	tab := e.openTab("C-001")

	_, err := e.svc.AddItem(e.ctx, tab.ID, orderdomain.ItemRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = e.svc.ChangeStatus(e.ctx, tab.ID, orderdomain.ChangeStatusRequest{Status: "CANCELADO"})
	require.NoError(t, err)

	// Sunday 23:30 purge detaches the code from the closed tab.
	e.clk.Set(time.Date(2026, time.March, 8, 23, 30, 0, 0, time.UTC))
	_, err = e.svc.List(e.ctx, orderdomain.ListRequest{})
	require.NoError(t, err)

	var order orderdomain.Order
	require.NoError(t, e.db.First(&order, "id = ?", tab.ID).Error)
	require.Nil(t, order.CodeRef)

	// The financial row stays readable after the detach.
	detail, err := e.svc.Get(e.ctx, tab.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("#%d", tab.ID), detail.Code)
	assert.Equal(t, orderdomain.StatusCancelado, detail.Status)

	rows, err := e.svc.History(e.ctx, orderdomain.HistoryRequest{OnlyFinalized: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tab.ID, rows[0].OrderID)
	assert.Equal(t, detail.Code, rows[0].Code)

	ticket, err := e.svc.Ticket(e.ctx, tab.ID, false, false)
	require.NoError(t, err)
	assert.Equal(t, detail.Code, ticket.Code)

	// Detached tabs are history; mutations treat them as missing.
	_, err = e.svc.ChangeStatus(e.ctx, tab.ID, orderdomain.ChangeStatusRequest{Status: "EM_PREPARO"})
	assert.ErrorIs(t, err, orderdomain.ErrNotFound)
	_, err = e.svc.AddItem(e.ctx, tab.ID, orderdomain.ItemRequest{ProductID: product.ID, Quantity: 1})
	assert.ErrorIs(t, err, orderdomain.ErrNotFound)
}

func TestReadPathTriggersWeeklyPurge(t *testing.T) {
	e := newEnv(t)
	e.seedCode("C-001")
	detail := e.openTab("C-001")
	_, err := e.svc.ChangeStatus(e.ctx, detail.ID, orderdomain.ChangeStatusRequest{Status: "CANCELADO"})
	require.NoError(t, err)

	// Sunday 23:30 opens the purge window.
	e.clk.Set(time.Date(2026, time.March, 8, 23, 30, 0, 0, time.UTC))

	_, err = e.svc.List(e.ctx, orderdomain.ListRequest{})
	require.NoError(t, err)

	var order orderdomain.Order
	require.NoError(t, e.db.First(&order, "id = ?", detail.ID).Error)
	assert.Nil(t, order.CodeRef)

	record := e.codeRecord("C-001")
	assert.False(t, record.InUse)
	assert.Equal(t, codedomain.VisualLiberado, codedomain.NormalizeVisualStatus(string(record.VisualStatus)))
}
