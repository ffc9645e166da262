package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListSortColumns maps the accepted sort keys to their columns.
var ListSortColumns = map[string]string{
	"id":           "id",
	"criado_em":    "created_at",
	"codigo":       "code_ref",
	"mesa":         "table_label",
	"status":       "status",
	"tipo_entrega": "delivery_type",
	"total":        "total",
}

type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, order *Order) error
	// FindByID resolves an attached order (code_ref not null) with items and
	// their additions preloaded. Detached orders read as not found.
	FindByID(ctx context.Context, tx *gorm.DB, orderID int64) (*Order, error)
	Save(ctx context.Context, tx *gorm.DB, order *Order) error
	// Delete removes the order row and everything hanging off it: items,
	// item additions, kitchen snapshots and payments.
	Delete(ctx context.Context, tx *gorm.DB, order *Order) error

	List(ctx context.Context, tx *gorm.DB, req ListRequest) ([]Order, error)
	// ItemCounts sums item quantities per order.
	ItemCounts(ctx context.Context, tx *gorm.DB, orderIDs []int64) (map[int64]int, error)
	// ListByCodes returns attached orders for the given codes, newest first.
	ListByCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]Order, error)
	// ListAttached returns every order still holding a code, items preloaded.
	ListAttached(ctx context.Context, tx *gorm.DB) ([]Order, error)
	// ListTerminalAttached returns ENTREGUE/CANCELADO orders still holding a
	// code. The weekly purge feeds on these.
	ListTerminalAttached(ctx context.Context, tx *gorm.DB) ([]Order, error)
	History(ctx context.Context, tx *gorm.DB, req HistoryRequest) ([]Order, error)
	Suggestions(ctx context.Context, tx *gorm.DB, limit int) (SuggestionRows, error)

	CreateItem(ctx context.Context, tx *gorm.DB, item *Item) error
	FindItem(ctx context.Context, tx *gorm.DB, orderID, itemID int64) (*Item, error)
	SaveItem(ctx context.Context, tx *gorm.DB, item *Item) error
	DeleteItem(ctx context.Context, tx *gorm.DB, item *Item) error
	ReplaceItemAdditions(ctx context.Context, tx *gorm.DB, itemID int64, rows []ItemAddition) error
	// SumItemSubtotals re-reads the order total from persisted items.
	SumItemSubtotals(ctx context.Context, tx *gorm.DB, orderID int64) (decimal.Decimal, error)

	ProductNames(ctx context.Context, tx *gorm.DB, productIDs []int64) (map[int64]string, error)
	// AllowedAdditionIDs lists the catalog additions linked to a product. An
	// empty result means the product accepts any addition.
	AllowedAdditionIDs(ctx context.Context, tx *gorm.DB, productID int64) (map[int64]struct{}, error)
	AdditionNames(ctx context.Context, tx *gorm.DB, additionIDs []int64) (map[int64]string, error)

	SaveSnapshot(ctx context.Context, tx *gorm.DB, snapshot *KitchenSnapshot) error
	LastSnapshot(ctx context.Context, tx *gorm.DB, orderID int64) (*KitchenSnapshot, error)
}
