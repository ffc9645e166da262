package domain

import (
	"context"
	"time"
)

type CreateRequest struct {
	Code   string `json:"code" binding:"required"`
	Active *bool  `json:"active"`
}

type Response struct {
	ID           int64        `json:"id"`
	Code         string       `json:"code"`
	Active       bool         `json:"active"`
	InUse        bool         `json:"in_use"`
	VisualStatus VisualStatus `json:"visual_status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id int64) (*Response, error)
	List(ctx context.Context, filter ListFilter) ([]Response, error)
	SetActive(ctx context.Context, id int64, active bool) (*Response, error)
	// ForceRelease frees a code regardless of its bound order; requires the
	// caller's explicit confirmation when the code is still in use.
	ForceRelease(ctx context.Context, id int64, confirm bool) (*Response, error)
	Delete(ctx context.Context, id int64) error
}
