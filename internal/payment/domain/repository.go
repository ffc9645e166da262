package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, tx *gorm.DB, id int64) (*Payment, error)
	FindByRef(ctx context.Context, tx *gorm.DB, ref string) (*Payment, error)
	ListByOrder(ctx context.Context, tx *gorm.DB, orderID int64) ([]Payment, error)
	Save(ctx context.Context, tx *gorm.DB, payment *Payment) error
}
