package repository

import (
	"context"
	"errors"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	productdomain "github.com/balcaopos/comanda/internal/product/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) productdomain.Repository {
	return &repository{db: db}
}

func (r *repository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, product *productdomain.Product) error {
	return r.conn(tx).WithContext(ctx).Create(product).Error
}

func (r *repository) FindByID(ctx context.Context, tx *gorm.DB, id int64) (*productdomain.Product, error) {
	var product productdomain.Product
	err := r.conn(tx).WithContext(ctx).
		Preload("Additions").
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindByName(ctx context.Context, tx *gorm.DB, name string) (*productdomain.Product, error) {
	var product productdomain.Product
	err := r.conn(tx).WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, tx *gorm.DB, filter productdomain.ListFilter) ([]productdomain.Product, int64, error) {
	stmt := r.conn(tx).WithContext(ctx).Model(&productdomain.Product{})
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	if filter.StockControlled != nil {
		stmt = stmt.Where("stock_controlled = ?", *filter.StockControlled)
	}
	if filter.Category != "" {
		stmt = stmt.Where("LOWER(category) = LOWER(?)", filter.Category)
	}
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Offset > 0 {
		stmt = stmt.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}

	var products []productdomain.Product
	if err := stmt.Preload("Additions").Order("LOWER(name) ASC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *repository) Save(ctx context.Context, tx *gorm.DB, product *productdomain.Product) error {
	return r.conn(tx).WithContext(ctx).Omit("Additions").Save(product).Error
}

func (r *repository) ReplaceAdditions(ctx context.Context, tx *gorm.DB, product *productdomain.Product, additions []additiondomain.Addition) error {
	return r.conn(tx).WithContext(ctx).Model(product).Association("Additions").Replace(additions)
}

func (r *repository) DetachFromOrders(ctx context.Context, tx *gorm.DB, productID int64) ([]int64, error) {
	conn := r.conn(tx).WithContext(ctx)

	var orderIDs []int64
	if err := conn.
		Table("order_items").
		Distinct("order_id").
		Where("product_id = ?", productID).
		Pluck("order_id", &orderIDs).Error; err != nil {
		return nil, err
	}
	if len(orderIDs) == 0 {
		return nil, nil
	}

	if err := conn.Exec(
		`DELETE FROM order_item_additions
		 WHERE item_id IN (SELECT id FROM order_items WHERE product_id = ?)`,
		productID,
	).Error; err != nil {
		return nil, err
	}
	if err := conn.Exec(`DELETE FROM order_items WHERE product_id = ?`, productID).Error; err != nil {
		return nil, err
	}
	return orderIDs, nil
}

func (r *repository) RecalculateOrderTotals(ctx context.Context, tx *gorm.DB, orderIDs []int64) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Exec(
		`UPDATE orders
		 SET total = COALESCE((SELECT SUM(subtotal) FROM order_items WHERE order_items.order_id = orders.id), 0)
		 WHERE id IN ?`,
		orderIDs,
	).Error
}

func (r *repository) Delete(ctx context.Context, tx *gorm.DB, product *productdomain.Product) error {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.Exec(`DELETE FROM product_additions WHERE product_id = ?`, product.ID).Error; err != nil {
		return err
	}
	return conn.Delete(product).Error
}
