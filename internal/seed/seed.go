// Package seed bootstraps a fresh installation with the physical code pool
// and a starter catalog so the service is usable out of the box.
package seed

import (
	"context"
	"errors"
	"fmt"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	productdomain "github.com/balcaopos/comanda/internal/product/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultCodeCount = 10

type productSeed struct {
	name       string
	category   string
	price      string
	controlled bool
	stock      int
}

var defaultProducts = []productSeed{
	{name: "Pão francês", category: "Padaria", price: "1.50", controlled: true, stock: 120},
	{name: "Pão na chapa", category: "Chapa", price: "6.00", controlled: false},
	{name: "Misto quente", category: "Chapa", price: "12.00", controlled: false},
	{name: "Café coado", category: "Bebidas", price: "5.00", controlled: false},
	{name: "Suco de laranja", category: "Bebidas", price: "9.00", controlled: false},
	{name: "Bolo de fubá", category: "Confeitaria", price: "7.00", controlled: true, stock: 20},
	{name: "Coxinha", category: "Salgados", price: "6.50", controlled: true, stock: 40},
}

var defaultAdditions = []struct {
	name  string
	price string
}{
	{name: "Queijo extra", price: "3.00"},
	{name: "Requeijão", price: "2.50"},
	{name: "Leite condensado", price: "2.00"},
}

// EnsureDefaults is idempotent: existing rows are left untouched, so it is
// safe to run on every startup.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCodes(ctx, tx); err != nil {
			return err
		}
		if err := ensureAdditions(ctx, tx); err != nil {
			return err
		}
		return ensureProducts(ctx, tx)
	})
}

func ensureCodes(ctx context.Context, tx *gorm.DB) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&codedomain.CodeRecord{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := 1; i <= defaultCodeCount; i++ {
		record := codedomain.CodeRecord{
			Code:         fmt.Sprintf("C-%03d", i),
			Active:       true,
			VisualStatus: codedomain.VisualLiberado,
		}
		if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureAdditions(ctx context.Context, tx *gorm.DB) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&additiondomain.Addition{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, s := range defaultAdditions {
		addition := additiondomain.Addition{
			Name:   s.name,
			Price:  decimal.RequireFromString(s.price),
			Active: true,
		}
		if err := tx.WithContext(ctx).Create(&addition).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureProducts(ctx context.Context, tx *gorm.DB) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&productdomain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, s := range defaultProducts {
		category := s.category
		product := productdomain.Product{
			Name:            s.name,
			Category:        &category,
			Price:           decimal.RequireFromString(s.price),
			Active:          true,
			StockControlled: s.controlled,
			StockQuantity:   s.stock,
		}
		if err := tx.WithContext(ctx).Omit("Additions").Create(&product).Error; err != nil {
			return err
		}
	}
	return nil
}
