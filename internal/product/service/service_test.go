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
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	productdomain "github.com/balcaopos/comanda/internal/product/domain"
	"github.com/balcaopos/comanda/internal/product/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	svc productdomain.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&additiondomain.Addition{},
		&productdomain.Product{},
		&orderdomain.Order{},
		&orderdomain.Item{},
		&orderdomain.ItemAddition{},
	))

	clk := clock.NewFakeClock(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC))
	store := cache.NewStore(clk, cache.DefaultConfig())

	svc := NewService(serviceParams{
		Log:       zap.NewNop(),
		DB:        db,
		Repo:      repository.NewRepository(db),
		Additions: additionrepo.NewRepository(db),
		Cache:     store,
	})

	return &env{t: t, ctx: context.Background(), db: db, svc: svc}
}

func (e *env) seedAddition(name string) int64 {
	e.t.Helper()
	addition := &additiondomain.Addition{
		Name:   name,
		Price:  decimal.RequireFromString("2.00"),
		Active: true,
	}
	require.NoError(e.t, e.db.Create(addition).Error)
	return addition.ID
}

func TestCreateRoundsPriceAndLinksAdditions(t *testing.T) {
	e := newEnv(t)
	additionID := e.seedAddition("Granola")

	resp, err := e.svc.Create(e.ctx, productdomain.CreateRequest{
		Name:        "  Açaí 500ml  ",
		Price:       decimal.RequireFromString("18.005"),
		AdditionIDs: []int64{additionID, additionID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Açaí 500ml", resp.Name)
	assert.Equal(t, "18.01", resp.Price.StringFixed(2))
	require.Len(t, resp.Additions, 1)
	assert.Equal(t, "Granola", resp.Additions[0].Name)
}

func TestCreateValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Create(e.ctx, productdomain.CreateRequest{Name: "   "})
	assert.ErrorIs(t, err, productdomain.ErrInvalidName)

	_, err = e.svc.Create(e.ctx, productdomain.CreateRequest{
		Name:  "Bolo",
		Price: decimal.RequireFromString("-1"),
	})
	assert.ErrorIs(t, err, productdomain.ErrInvalidPrice)

	_, err = e.svc.Create(e.ctx, productdomain.CreateRequest{
		Name:          "Bolo",
		StockQuantity: -1,
	})
	assert.ErrorIs(t, err, productdomain.ErrInvalidStock)

	_, err = e.svc.Create(e.ctx, productdomain.CreateRequest{
		Name:        "Bolo",
		AdditionIDs: []int64{999},
	})
	assert.ErrorIs(t, err, productdomain.ErrAdditionNotFound)

	_, err = e.svc.Create(e.ctx, productdomain.CreateRequest{Name: "Bolo"})
	require.NoError(t, err)
	_, err = e.svc.Create(e.ctx, productdomain.CreateRequest{Name: "Bolo"})
	assert.ErrorIs(t, err, productdomain.ErrNameExists)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	e := newEnv(t)

	created, err := e.svc.Create(e.ctx, productdomain.CreateRequest{
		Name:  "Café",
		Price: decimal.RequireFromString("6.00"),
	})
	require.NoError(t, err)

	price := decimal.RequireFromString("6.50")
	updated, err := e.svc.Update(e.ctx, created.ID, productdomain.UpdateRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Café", updated.Name)
	assert.Equal(t, "6.50", updated.Price.StringFixed(2))

	other, err := e.svc.Create(e.ctx, productdomain.CreateRequest{Name: "Chá"})
	require.NoError(t, err)
	name := "café" // case-insensitive clash with the existing product
	_, err = e.svc.Update(e.ctx, other.ID, productdomain.UpdateRequest{Name: &name})
	assert.ErrorIs(t, err, productdomain.ErrNameExists)
}

func TestAdjustStockFloorsAtZero(t *testing.T) {
	e := newEnv(t)

	created, err := e.svc.Create(e.ctx, productdomain.CreateRequest{
		Name:            "Pudim",
		StockControlled: true,
		StockQuantity:   5,
	})
	require.NoError(t, err)

	adjusted, err := e.svc.AdjustStock(e.ctx, created.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 2, adjusted.StockQuantity)

	_, err = e.svc.AdjustStock(e.ctx, created.ID, -3)
	assert.ErrorIs(t, err, productdomain.ErrInvalidStock)

	adjusted, err = e.svc.AdjustStock(e.ctx, created.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 12, adjusted.StockQuantity)
}

func TestDeactivateKeepsRecord(t *testing.T) {
	e := newEnv(t)

	created, err := e.svc.Create(e.ctx, productdomain.CreateRequest{Name: "Suco"})
	require.NoError(t, err)

	deactivated, err := e.svc.Deactivate(e.ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	fetched, err := e.svc.Get(e.ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, fetched.Active)
}

func TestHardDeleteRecountsTouchedOrders(t *testing.T) {
	e := newEnv(t)

	created, err := e.svc.Create(e.ctx, productdomain.CreateRequest{
		Name:  "Bolo",
		Price: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)
	keeper, err := e.svc.Create(e.ctx, productdomain.CreateRequest{
		Name:  "Café",
		Price: decimal.RequireFromString("6.00"),
	})
	require.NoError(t, err)

	order := &orderdomain.Order{
		Status:       orderdomain.StatusAberto,
		DeliveryType: orderdomain.DeliveryRetirada,
		Total:        decimal.RequireFromString("16.00"),
	}
	require.NoError(t, e.db.Create(order).Error)
	require.NoError(t, e.db.Create(&orderdomain.Item{
		OrderID:   order.ID,
		ProductID: created.ID,
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("10.00"),
		Subtotal:  decimal.RequireFromString("10.00"),
	}).Error)
	require.NoError(t, e.db.Create(&orderdomain.Item{
		OrderID:   order.ID,
		ProductID: keeper.ID,
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("6.00"),
		Subtotal:  decimal.RequireFromString("6.00"),
	}).Error)

	result, err := e.svc.HardDelete(e.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.OrdersRecounted)

	var reloaded orderdomain.Order
	require.NoError(t, e.db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, "6.00", reloaded.Total.StringFixed(2))

	var itemCount int64
	require.NoError(t, e.db.Model(&orderdomain.Item{}).
		Where("product_id = ?", created.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	_, err = e.svc.Get(e.ctx, created.ID)
	assert.ErrorIs(t, err, productdomain.ErrNotFound)
}

func TestListFilters(t *testing.T) {
	e := newEnv(t)

	category := "doces"
	_, err := e.svc.Create(e.ctx, productdomain.CreateRequest{Name: "Bolo", Category: &category})
	require.NoError(t, err)
	inactive := false
	_, err = e.svc.Create(e.ctx, productdomain.CreateRequest{Name: "Café", Active: &inactive})
	require.NoError(t, err)

	active := true
	list, err := e.svc.List(e.ctx, productdomain.ListFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Bolo", list.Items[0].Name)

	list, err = e.svc.List(e.ctx, productdomain.ListFilter{Name: "caf"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Café", list.Items[0].Name)
}
