package repository

import (
	"context"
	"errors"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) additiondomain.Repository {
	return &repository{db: db}
}

func (r *repository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, addition *additiondomain.Addition) error {
	return r.conn(tx).WithContext(ctx).Create(addition).Error
}

func (r *repository) FindByID(ctx context.Context, tx *gorm.DB, id int64) (*additiondomain.Addition, error) {
	var addition additiondomain.Addition
	err := r.conn(tx).WithContext(ctx).First(&addition, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &addition, nil
}

func (r *repository) FindByName(ctx context.Context, tx *gorm.DB, name string) (*additiondomain.Addition, error) {
	var addition additiondomain.Addition
	err := r.conn(tx).WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&addition).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &addition, nil
}

func (r *repository) FindByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]additiondomain.Addition, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var additions []additiondomain.Addition
	if err := r.conn(tx).WithContext(ctx).Where("id IN ?", ids).Find(&additions).Error; err != nil {
		return nil, err
	}
	return additions, nil
}

func (r *repository) List(ctx context.Context, tx *gorm.DB, filter additiondomain.ListFilter) ([]additiondomain.Addition, error) {
	stmt := r.conn(tx).WithContext(ctx).Model(&additiondomain.Addition{})
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}

	var additions []additiondomain.Addition
	if err := stmt.Order("LOWER(name) ASC").Find(&additions).Error; err != nil {
		return nil, err
	}
	return additions, nil
}

func (r *repository) Save(ctx context.Context, tx *gorm.DB, addition *additiondomain.Addition) error {
	return r.conn(tx).WithContext(ctx).Save(addition).Error
}

func (r *repository) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	return r.conn(tx).WithContext(ctx).Delete(&additiondomain.Addition{}, "id = ?", id).Error
}

// ReferenceCount counts how many order item rows and product links still point
// at the addition. Used to refuse deletes that would orphan history.
func (r *repository) ReferenceCount(ctx context.Context, tx *gorm.DB, id int64) (int64, error) {
	var itemRefs int64
	if err := r.conn(tx).WithContext(ctx).
		Table("order_item_additions").
		Where("addition_id = ?", id).
		Count(&itemRefs).Error; err != nil {
		return 0, err
	}

	var productRefs int64
	if err := r.conn(tx).WithContext(ctx).
		Table("product_additions").
		Where("addition_id = ?", id).
		Count(&productRefs).Error; err != nil {
		return 0, err
	}
	return itemRefs + productRefs, nil
}
