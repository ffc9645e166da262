// Package stock applies stock movements for stock-controlled products.
// Decrements are guarded SQL updates (stock_quantity >= required) so two
// concurrent transactions can never drive a balance below zero.
package stock

import (
	"context"
	"errors"
	"fmt"
	"sort"

	productdomain "github.com/balcaopos/comanda/internal/product/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InsufficientError reports a decrement that would overdraw a product.
type InsufficientError struct {
	ProductID   int64
	ProductName string
	Available   int
	Required    int
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d, required %d",
		e.ProductName, e.Available, e.Required)
}

type Ledger struct {
	log *zap.Logger
}

func NewLedger(log *zap.Logger) *Ledger {
	return &Ledger{log: log.Named("stock.ledger")}
}

// Decrement withdraws qty units from a product inside the caller's
// transaction. It reports whether stock actually moved: products without
// stock control pass through untouched.
func (l *Ledger) Decrement(ctx context.Context, tx *gorm.DB, productID int64, qty int) (bool, error) {
	product, err := l.load(ctx, tx, productID)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, productdomain.ErrNotFound
	}
	if !product.StockControlled || qty <= 0 {
		return false, nil
	}

	res := tx.WithContext(ctx).
		Model(&productdomain.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// Re-read for the current balance; another writer may have drained it.
		current, err := l.load(ctx, tx, productID)
		if err != nil {
			return false, err
		}
		available := 0
		if current != nil {
			available = current.StockQuantity
		}
		return false, &InsufficientError{
			ProductID:   productID,
			ProductName: product.Name,
			Available:   available,
			Required:    qty,
		}
	}

	l.log.Debug("stock decremented",
		zap.Int64("product_id", productID),
		zap.Int("quantity", qty),
	)
	return true, nil
}

// Increment returns qty units to a product. Missing or uncontrolled products
// are ignored so restock paths never fail a larger operation.
func (l *Ledger) Increment(ctx context.Context, tx *gorm.DB, productID int64, qty int) (bool, error) {
	product, err := l.load(ctx, tx, productID)
	if err != nil {
		return false, err
	}
	if product == nil || !product.StockControlled || qty <= 0 {
		return false, nil
	}

	err = tx.WithContext(ctx).
		Model(&productdomain.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty)).Error
	if err != nil {
		return false, err
	}

	l.log.Debug("stock incremented",
		zap.Int64("product_id", productID),
		zap.Int("quantity", qty),
	)
	return true, nil
}

// DecrementBatch withdraws stock for several products at once. Requirements
// are validated against current balances before any write, then applied with
// the same guarded update as Decrement; the caller's transaction rolls back
// on the first failure, so the batch is all-or-nothing.
func (l *Ledger) DecrementBatch(ctx context.Context, tx *gorm.DB, required map[int64]int) error {
	if len(required) == 0 {
		return nil
	}

	for _, productID := range sortedKeys(required) {
		qty := required[productID]
		if qty <= 0 {
			continue
		}
		product, err := l.load(ctx, tx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return productdomain.ErrNotFound
		}
		if !product.StockControlled {
			continue
		}
		if product.StockQuantity < qty {
			return &InsufficientError{
				ProductID:   productID,
				ProductName: product.Name,
				Available:   product.StockQuantity,
				Required:    qty,
			}
		}
	}

	for _, productID := range sortedKeys(required) {
		if _, err := l.Decrement(ctx, tx, productID, required[productID]); err != nil {
			return err
		}
	}
	return nil
}

// IncrementBatch returns stock for several products. Never fails on missing
// or uncontrolled entries.
func (l *Ledger) IncrementBatch(ctx context.Context, tx *gorm.DB, returned map[int64]int) error {
	for _, productID := range sortedKeys(returned) {
		if _, err := l.Increment(ctx, tx, productID, returned[productID]); err != nil {
			return err
		}
	}
	return nil
}

// AdjustForItemChange reconciles stock when an item's product or quantity
// changes. A product swap returns the full old quantity and withdraws the
// full new one; a quantity change moves only the delta.
func (l *Ledger) AdjustForItemChange(ctx context.Context, tx *gorm.DB, oldProductID int64, oldQty int, newProductID int64, newQty int) error {
	if oldProductID != newProductID {
		if _, err := l.Increment(ctx, tx, oldProductID, oldQty); err != nil {
			return err
		}
		_, err := l.Decrement(ctx, tx, newProductID, newQty)
		return err
	}

	switch delta := newQty - oldQty; {
	case delta > 0:
		_, err := l.Decrement(ctx, tx, newProductID, delta)
		return err
	case delta < 0:
		_, err := l.Increment(ctx, tx, newProductID, -delta)
		return err
	default:
		return nil
	}
}

func (l *Ledger) load(ctx context.Context, tx *gorm.DB, productID int64) (*productdomain.Product, error) {
	var product productdomain.Product
	err := tx.WithContext(ctx).First(&product, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func sortedKeys(m map[int64]int) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
