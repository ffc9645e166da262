package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	OrderID int64           `json:"order_id" binding:"required"`
	Method  string          `json:"method" binding:"required"`
	Amount  decimal.Decimal `json:"amount"`
}

type TerminalRequest struct {
	OrderID int64           `json:"order_id" binding:"required"`
	Method  string          `json:"method" binding:"required"`
	Amount  decimal.Decimal `json:"amount"`
}

type CallbackRequest struct {
	Reference string `json:"referencia" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

type Response struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	Method      Method          `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	Status      Status          `json:"status"`
	ExternalRef *string         `json:"external_ref,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Service interface {
	// Create records a manual payment (cash drawer, standalone PIX); it is
	// approved immediately.
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	// StartTerminal opens a pending card-terminal payment and hands back the
	// external reference the terminal will echo in its callback.
	StartTerminal(ctx context.Context, req TerminalRequest) (*Response, error)
	// ConfirmTerminal approves a pending terminal payment from the counter.
	ConfirmTerminal(ctx context.Context, id int64) (*Response, error)
	// Callback settles a pending payment from the terminal's async notification.
	Callback(ctx context.Context, req CallbackRequest) (*Response, error)
	ListByOrder(ctx context.Context, orderID int64) ([]Response, *Summary, error)
}
