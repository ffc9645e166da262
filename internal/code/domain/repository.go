package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Active *bool
	InUse  *bool
}

type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, record *CodeRecord) error
	FindByID(ctx context.Context, tx *gorm.DB, id int64) (*CodeRecord, error)
	FindByCode(ctx context.Context, tx *gorm.DB, code string) (*CodeRecord, error)
	List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]CodeRecord, error)
	Save(ctx context.Context, tx *gorm.DB, record *CodeRecord) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) error

	// MarkInUse binds a code to a live order: in_use=true, visual mirrors the
	// order's status.
	MarkInUse(ctx context.Context, tx *gorm.DB, code string, visual VisualStatus) error
	// Release frees the codes: in_use=false, visual back to LIBERADO.
	Release(ctx context.Context, tx *gorm.DB, codes ...string) error
}
