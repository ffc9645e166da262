package domain

import (
	"context"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	"gorm.io/gorm"
)

type ListFilter struct {
	Active          *bool
	StockControlled *bool
	Category        string
	Name            string
	Offset          int
	Limit           int
}

type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, product *Product) error
	FindByID(ctx context.Context, tx *gorm.DB, id int64) (*Product, error)
	FindByName(ctx context.Context, tx *gorm.DB, name string) (*Product, error)
	List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]Product, int64, error)
	Save(ctx context.Context, tx *gorm.DB, product *Product) error
	ReplaceAdditions(ctx context.Context, tx *gorm.DB, product *Product, additions []additiondomain.Addition) error

	// DetachFromOrders removes every order item referencing the product and
	// returns the ids of the orders that lost items.
	DetachFromOrders(ctx context.Context, tx *gorm.DB, productID int64) ([]int64, error)
	// RecalculateOrderTotals re-sums each order's total from its surviving items.
	RecalculateOrderTotals(ctx context.Context, tx *gorm.DB, orderIDs []int64) error
	Delete(ctx context.Context, tx *gorm.DB, product *Product) error
}
