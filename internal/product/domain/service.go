package domain

import (
	"context"
	"time"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name            string          `json:"name" binding:"required"`
	Category        *string         `json:"category"`
	Description     *string         `json:"description"`
	ImageURL        *string         `json:"image_url"`
	Price           decimal.Decimal `json:"price"`
	Active          *bool           `json:"active"`
	StockControlled bool            `json:"stock_controlled"`
	StockQuantity   int             `json:"stock_quantity"`
	AdditionIDs     []int64         `json:"addition_ids"`
}

type UpdateRequest struct {
	Name            *string          `json:"name"`
	Category        *string          `json:"category"`
	Description     *string          `json:"description"`
	ImageURL        *string          `json:"image_url"`
	Price           *decimal.Decimal `json:"price"`
	Active          *bool            `json:"active"`
	StockControlled *bool            `json:"stock_controlled"`
	StockQuantity   *int             `json:"stock_quantity"`
	AdditionIDs     []int64          `json:"addition_ids"`
}

type Response struct {
	ID              int64                     `json:"id"`
	Name            string                    `json:"name"`
	Category        *string                   `json:"category,omitempty"`
	Description     *string                   `json:"description,omitempty"`
	ImageURL        *string                   `json:"image_url,omitempty"`
	Price           decimal.Decimal           `json:"price"`
	Active          bool                      `json:"active"`
	StockControlled bool                      `json:"stock_controlled"`
	StockQuantity   int                       `json:"stock_quantity"`
	Additions       []additiondomain.Response `json:"additions"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

type ListResponse struct {
	Items []Response `json:"items"`
	Total int64      `json:"total"`
}

type HardDeleteResult struct {
	ProductID       int64 `json:"product_id"`
	OrdersRecounted int   `json:"orders_recounted"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Response, error)
	Get(ctx context.Context, id int64) (*Response, error)
	List(ctx context.Context, filter ListFilter) (*ListResponse, error)
	AdjustStock(ctx context.Context, id int64, delta int) (*Response, error)
	Deactivate(ctx context.Context, id int64) (*Response, error)
	HardDelete(ctx context.Context, id int64) (*HardDeleteResult, error)
}
