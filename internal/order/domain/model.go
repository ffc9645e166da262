package domain

import (
	"fmt"
	"time"

	"github.com/balcaopos/comanda/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Order is an open tab bound to a reusable code. CodeRef goes NULL once the
// code is released back to the pool; such detached rows stay readable through
// detail, history and ticket lookups but leave active listings and refuse
// further mutation.
type Order struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	CodeRef      *string         `gorm:"column:code_ref;type:text;index" json:"code_ref,omitempty"`
	TableLabel   *string         `gorm:"column:table_label;type:text" json:"table,omitempty"`
	Status       Status          `gorm:"type:text;not null;default:'ABERTO'" json:"status"`
	DeliveryType DeliveryType    `gorm:"column:delivery_type;type:text;not null;default:'RETIRADA'" json:"delivery_type"`
	Notes        *string         `gorm:"type:text" json:"notes,omitempty"`
	Total        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`

	Items []Item `gorm:"foreignKey:OrderID" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// DisplayCode falls back to "#<id>" for detached orders.
func (o *Order) DisplayCode() string {
	if o.CodeRef != nil && *o.CodeRef != "" {
		return *o.CodeRef
	}
	return fmt.Sprintf("#%d", o.ID)
}

// TotalItems sums the quantities of all items.
func (o *Order) TotalItems() int {
	total := 0
	for i := range o.Items {
		total += o.Items[i].Quantity
	}
	return total
}

// RecalculateTotal re-derives the order total from its items.
func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal)
	}
	o.Total = money.Round(total)
}

// Item is one order line. UnitPrice snapshots the product price at add time.
type Item struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	OrderID   int64           `gorm:"column:order_id;not null;index" json:"order_id"`
	ProductID int64           `gorm:"column:product_id;not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null" json:"unit_price"`
	Discount  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"discount"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	Notes     *string         `gorm:"type:text" json:"notes,omitempty"`

	Additions []ItemAddition `gorm:"foreignKey:ItemID" json:"additions,omitempty"`
}

func (Item) TableName() string { return "order_items" }

// Gross is the undiscounted line value: unit price times quantity plus all
// addition subtotals.
func (i *Item) Gross() decimal.Decimal {
	gross := money.MulQty(i.UnitPrice, i.Quantity)
	for j := range i.Additions {
		gross = gross.Add(i.Additions[j].Subtotal)
	}
	return money.Round(gross)
}

// Recalculate re-derives the line subtotal, validating the discount range.
func (i *Item) Recalculate() error {
	gross := i.Gross()
	if i.Discount.IsNegative() {
		return ErrDiscountNegative
	}
	if i.Discount.GreaterThan(gross) {
		return ErrDiscountExceedsGross
	}
	i.Discount = money.Round(i.Discount)
	i.Subtotal = money.Round(gross.Sub(i.Discount))
	return nil
}

// ItemAddition is an extra attached to one item. One row per addition
// reference; duplicate requests are merged before persistence.
type ItemAddition struct {
	ID         int64           `gorm:"primaryKey" json:"id"`
	ItemID     int64           `gorm:"column:item_id;not null;index" json:"item_id"`
	AdditionID int64           `gorm:"column:addition_id;not null;index" json:"addition_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null" json:"unit_price"`
	Subtotal   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
}

func (ItemAddition) TableName() string { return "order_item_additions" }

// KitchenSnapshot is an append-only record of what the kitchen last saw for
// an order. Only the newest row per order is ever read.
type KitchenSnapshot struct {
	ID      int64          `gorm:"primaryKey" json:"id"`
	OrderID int64          `gorm:"column:order_id;not null;index" json:"order_id"`
	Payload datatypes.JSON `gorm:"not null" json:"payload"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (KitchenSnapshot) TableName() string { return "kitchen_snapshots" }

// ComplexityLabel buckets an order by its total item count for the panel and
// the printed ticket.
func ComplexityLabel(totalItems int) string {
	switch {
	case totalItems <= 0:
		return "Sem itens"
	case totalItems <= 2:
		return "Pedido minúsculo"
	case totalItems <= 5:
		return "Pedido pequeno"
	case totalItems <= 8:
		return "Pedido médio"
	default:
		return "Pedido grande"
	}
}
