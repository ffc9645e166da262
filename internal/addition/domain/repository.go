package domain

import (
	"context"

	"gorm.io/gorm"
)

// ListFilter narrows List results.
type ListFilter struct {
	Active *bool
	Name   string
}

type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, addition *Addition) error
	FindByID(ctx context.Context, tx *gorm.DB, id int64) (*Addition, error)
	FindByName(ctx context.Context, tx *gorm.DB, name string) (*Addition, error)
	FindByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]Addition, error)
	List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]Addition, error)
	Save(ctx context.Context, tx *gorm.DB, addition *Addition) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
	ReferenceCount(ctx context.Context, tx *gorm.DB, id int64) (int64, error)
}
