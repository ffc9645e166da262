package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name   string          `json:"name" binding:"required"`
	Price  decimal.Decimal `json:"price"`
	Active *bool           `json:"active"`
}

type UpdateRequest struct {
	Name   *string          `json:"name"`
	Price  *decimal.Decimal `json:"price"`
	Active *bool            `json:"active"`
}

type Response struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Response, error)
	Get(ctx context.Context, id int64) (*Response, error)
	List(ctx context.Context, filter ListFilter) ([]Response, error)
	Delete(ctx context.Context, id int64) error
}
