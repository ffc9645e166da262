package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Addition is an extra that can be attached to order items (e.g. "Bacon",
// "Queijo extra"). Names are unique case-insensitively; the stored form keeps
// the casing of the first write.
type Addition struct {
	ID     int64           `gorm:"primaryKey" json:"id"`
	Name   string          `gorm:"type:text;not null;uniqueIndex:idx_additions_name" json:"name"`
	Price  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Active bool            `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Addition) TableName() string { return "additions" }
