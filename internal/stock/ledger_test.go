package stock

import (
	"context"
	"errors"
	"fmt"
	"testing"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	productdomain "github.com/balcaopos/comanda/internal/product/domain"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&additiondomain.Addition{}, &productdomain.Product{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, controlled bool, qty int) *productdomain.Product {
	t.Helper()
	product := &productdomain.Product{
		Name:            name,
		Price:           decimal.RequireFromString("10.00"),
		Active:          true,
		StockControlled: controlled,
		StockQuantity:   qty,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func stockOf(t *testing.T, db *gorm.DB, id int64) int {
	t.Helper()
	var product productdomain.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return product.StockQuantity
}

func TestDecrementControlledProduct(t *testing.T) {
	db := setupDB(t)
	ledger := NewLedger(zap.NewNop())
	ctx := context.Background()

	product := seedProduct(t, db, "Pão francês", true, 5)

	moved, err := ledger.Decrement(ctx, db, product.ID, 3)
	assert.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 2, stockOf(t, db, product.ID))

	_, err = ledger.Decrement(ctx, db, product.ID, 3)
	var insufficient *InsufficientError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Pão francês", insufficient.ProductName)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, 3, insufficient.Required)
	assert.Equal(t, 2, stockOf(t, db, product.ID), "failed decrement must not move stock")
}

func TestDecrementSkipsUncontrolledProduct(t *testing.T) {
	db := setupDB(t)
	ledger := NewLedger(zap.NewNop())

	product := seedProduct(t, db, "Café coado", false, 0)

	moved, err := ledger.Decrement(context.Background(), db, product.ID, 10)
	assert.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 0, stockOf(t, db, product.ID))
}

func TestDecrementUnknownProduct(t *testing.T) {
	db := setupDB(t)
	ledger := NewLedger(zap.NewNop())

	_, err := ledger.Decrement(context.Background(), db, 9999, 1)
	assert.ErrorIs(t, err, productdomain.ErrNotFound)
}

func TestIncrementNeverFails(t *testing.T) {
	db := setupDB(t)
	ledger := NewLedger(zap.NewNop())
	ctx := context.Background()

	controlled := seedProduct(t, db, "Bolo de fubá", true, 1)
	uncontrolled := seedProduct(t, db, "Água", false, 0)

	moved, err := ledger.Increment(ctx, db, controlled.ID, 4)
	assert.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 5, stockOf(t, db, controlled.ID))

	moved, err = ledger.Increment(ctx, db, uncontrolled.ID, 4)
	assert.NoError(t, err)
	assert.False(t, moved)

	moved, err = ledger.Increment(ctx, db, 9999, 4)
	assert.NoError(t, err)
	assert.False(t, moved)
}

func TestDecrementBatchIsAllOrNothing(t *testing.T) {
	db := setupDB(t)
	ledger := NewLedger(zap.NewNop())
	ctx := context.Background()

	plenty := seedProduct(t, db, "Sonho", true, 10)
	scarce := seedProduct(t, db, "Torta", true, 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.DecrementBatch(ctx, tx, map[int64]int{
			plenty.ID: 2,
			scarce.ID: 3,
		})
	})
	var insufficient *InsufficientError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Torta", insufficient.ProductName)

	assert.Equal(t, 10, stockOf(t, db, plenty.ID), "rollback must restore every balance")
	assert.Equal(t, 1, stockOf(t, db, scarce.ID))

	err = db.Transaction(func(tx *gorm.DB) error {
		return ledger.DecrementBatch(ctx, tx, map[int64]int{
			plenty.ID: 2,
			scarce.ID: 1,
		})
	})
	assert.NoError(t, err)
	assert.Equal(t, 8, stockOf(t, db, plenty.ID))
	assert.Equal(t, 0, stockOf(t, db, scarce.ID))
}

func TestAdjustForItemChange(t *testing.T) {
	db := setupDB(t)
	ledger := NewLedger(zap.NewNop())
	ctx := context.Background()

	first := seedProduct(t, db, "Coxinha", true, 10)
	second := seedProduct(t, db, "Esfiha", true, 10)

	// Quantity grows on the same product: only the delta moves.
	require.NoError(t, ledger.AdjustForItemChange(ctx, db, first.ID, 2, first.ID, 5))
	assert.Equal(t, 7, stockOf(t, db, first.ID))

	// Quantity shrinks: the delta comes back.
	require.NoError(t, ledger.AdjustForItemChange(ctx, db, first.ID, 5, first.ID, 1))
	assert.Equal(t, 11, stockOf(t, db, first.ID))

	// Product swap: full return on the old, full withdrawal on the new.
	require.NoError(t, ledger.AdjustForItemChange(ctx, db, first.ID, 1, second.ID, 4))
	assert.Equal(t, 12, stockOf(t, db, first.ID))
	assert.Equal(t, 6, stockOf(t, db, second.ID))
}

func TestInsufficientErrorMessage(t *testing.T) {
	err := &InsufficientError{ProductName: "Torta", Available: 1, Required: 3}
	assert.Equal(t, `insufficient stock for "Torta": available 1, required 3`, err.Error())
	assert.False(t, errors.Is(err, productdomain.ErrNotFound))
}
