package repository

import (
	"context"
	"errors"

	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) codedomain.Repository {
	return &repository{db: db}
}

func (r *repository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, record *codedomain.CodeRecord) error {
	return r.conn(tx).WithContext(ctx).Create(record).Error
}

func (r *repository) FindByID(ctx context.Context, tx *gorm.DB, id int64) (*codedomain.CodeRecord, error) {
	var record codedomain.CodeRecord
	err := r.conn(tx).WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	normalize(&record)
	return &record, nil
}

func (r *repository) FindByCode(ctx context.Context, tx *gorm.DB, code string) (*codedomain.CodeRecord, error) {
	var record codedomain.CodeRecord
	err := r.conn(tx).WithContext(ctx).
		Where("code = ?", codedomain.NormalizeCode(code)).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	normalize(&record)
	return &record, nil
}

func (r *repository) List(ctx context.Context, tx *gorm.DB, filter codedomain.ListFilter) ([]codedomain.CodeRecord, error) {
	stmt := r.conn(tx).WithContext(ctx).Model(&codedomain.CodeRecord{})
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	if filter.InUse != nil {
		stmt = stmt.Where("in_use = ?", *filter.InUse)
	}

	var records []codedomain.CodeRecord
	if err := stmt.Order("code ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	for i := range records {
		normalize(&records[i])
	}
	return records, nil
}

func (r *repository) Save(ctx context.Context, tx *gorm.DB, record *codedomain.CodeRecord) error {
	return r.conn(tx).WithContext(ctx).Save(record).Error
}

func (r *repository) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	return r.conn(tx).WithContext(ctx).Delete(&codedomain.CodeRecord{}, "id = ?", id).Error
}

func (r *repository) MarkInUse(ctx context.Context, tx *gorm.DB, code string, visual codedomain.VisualStatus) error {
	return r.conn(tx).WithContext(ctx).
		Model(&codedomain.CodeRecord{}).
		Where("code = ?", codedomain.NormalizeCode(code)).
		Updates(map[string]any{
			"in_use":        true,
			"visual_status": visual,
		}).Error
}

func (r *repository) Release(ctx context.Context, tx *gorm.DB, codes ...string) error {
	if len(codes) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		normalized = append(normalized, codedomain.NormalizeCode(code))
	}
	return r.conn(tx).WithContext(ctx).
		Model(&codedomain.CodeRecord{}).
		Where("code IN ?", normalized).
		Updates(map[string]any{
			"in_use":        false,
			"visual_status": codedomain.VisualLiberado,
		}).Error
}

// normalize coerces the stored visual status into the closed set on the way
// out of the database.
func normalize(record *codedomain.CodeRecord) {
	record.VisualStatus = codedomain.NormalizeVisualStatus(string(record.VisualStatus))
}
