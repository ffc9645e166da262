package repository

import (
	"context"
	"errors"

	paymentdomain "github.com/balcaopos/comanda/internal/payment/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) paymentdomain.Repository {
	return &repository{db: db}
}

func (r *repository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, payment *paymentdomain.Payment) error {
	return r.conn(tx).WithContext(ctx).Create(payment).Error
}

func (r *repository) FindByID(ctx context.Context, tx *gorm.DB, id int64) (*paymentdomain.Payment, error) {
	var payment paymentdomain.Payment
	err := r.conn(tx).WithContext(ctx).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) FindByRef(ctx context.Context, tx *gorm.DB, ref string) (*paymentdomain.Payment, error) {
	var payment paymentdomain.Payment
	err := r.conn(tx).WithContext(ctx).
		Where("external_ref = ?", ref).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) ListByOrder(ctx context.Context, tx *gorm.DB, orderID int64) ([]paymentdomain.Payment, error) {
	var payments []paymentdomain.Payment
	err := r.conn(tx).WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) Save(ctx context.Context, tx *gorm.DB, payment *paymentdomain.Payment) error {
	return r.conn(tx).WithContext(ctx).Save(payment).Error
}
