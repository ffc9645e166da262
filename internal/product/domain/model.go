package domain

import (
	"time"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	"github.com/shopspring/decimal"
)

// Product is a menu entry. Stock is only tracked when StockControlled is set;
// uncontrolled products sell without touching the ledger.
type Product struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:text;not null;uniqueIndex:idx_products_name" json:"name"`
	Category    *string         `gorm:"type:text" json:"category,omitempty"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	ImageURL    *string         `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Active      bool            `gorm:"not null;default:true" json:"active"`

	StockControlled bool `gorm:"column:stock_controlled;not null;default:false" json:"stock_controlled"`
	StockQuantity   int  `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`

	Additions []additiondomain.Addition `gorm:"many2many:product_additions;" json:"additions,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Product) TableName() string { return "products" }
