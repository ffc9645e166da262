package repository

import (
	"context"
	"errors"
	"strings"

	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) orderdomain.Repository {
	return &repository{db: db}
}

func (r *repository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, order *orderdomain.Order) error {
	return r.conn(tx).WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, tx *gorm.DB, orderID int64) (*orderdomain.Order, error) {
	var order orderdomain.Order
	err := r.conn(tx).WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Additions", func(db *gorm.DB) *gorm.DB { return db.Order("order_item_additions.id ASC") }).
		Where("id = ?", orderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Save(ctx context.Context, tx *gorm.DB, order *orderdomain.Order) error {
	return r.conn(tx).WithContext(ctx).Omit("Items").Save(order).Error
}

func (r *repository) Delete(ctx context.Context, tx *gorm.DB, order *orderdomain.Order) error {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.Exec(
		`DELETE FROM order_item_additions
		 WHERE item_id IN (SELECT id FROM order_items WHERE order_id = ?)`,
		order.ID,
	).Error; err != nil {
		return err
	}
	for _, table := range []string{"order_items", "kitchen_snapshots", "payments"} {
		if err := conn.Exec("DELETE FROM "+table+" WHERE order_id = ?", order.ID).Error; err != nil {
			return err
		}
	}
	return conn.Delete(&orderdomain.Order{}, "id = ?", order.ID).Error
}

func (r *repository) List(ctx context.Context, tx *gorm.DB, req orderdomain.ListRequest) ([]orderdomain.Order, error) {
	stmt := r.conn(tx).WithContext(ctx).
		Model(&orderdomain.Order{}).
		Where("code_ref IS NOT NULL")

	if req.Status != nil {
		stmt = stmt.Where("status = ?", *req.Status)
	}
	if req.DeliveryType != nil {
		stmt = stmt.Where("delivery_type = ?", *req.DeliveryType)
	}
	if code := strings.TrimSpace(req.Code); code != "" {
		stmt = stmt.Where("LOWER(code_ref) LIKE LOWER(?)", "%"+code+"%")
	}
	if table := strings.TrimSpace(req.Table); table != "" {
		stmt = stmt.Where("LOWER(table_label) LIKE LOWER(?)", "%"+table+"%")
	}
	if req.DateFrom != nil {
		stmt = stmt.Where("created_at >= ?", *req.DateFrom)
	}
	if req.DateTo != nil {
		stmt = stmt.Where("created_at <= ?", *req.DateTo)
	}
	if req.TotalMin != nil {
		stmt = stmt.Where("total >= ?", *req.TotalMin)
	}
	if req.TotalMax != nil {
		stmt = stmt.Where("total <= ?", *req.TotalMax)
	}

	column := orderdomain.ListSortColumns[req.SortBy]
	direction := "ASC"
	if req.OrderBy == "desc" {
		direction = "DESC"
	}
	stmt = stmt.Order(column + " " + direction).Order("id DESC")

	if req.Offset > 0 {
		stmt = stmt.Offset(req.Offset)
	}
	if req.Limit > 0 {
		stmt = stmt.Limit(req.Limit)
	}

	var orders []orderdomain.Order
	if err := stmt.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ItemCounts(ctx context.Context, tx *gorm.DB, orderIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(orderIDs))
	if len(orderIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		OrderID int64 `gorm:"column:order_id"`
		Total   int   `gorm:"column:total"`
	}
	err := r.conn(tx).WithContext(ctx).
		Table("order_items").
		Select("order_id, COALESCE(SUM(quantity), 0) AS total").
		Where("order_id IN ?", orderIDs).
		Group("order_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.OrderID] = row.Total
	}
	return counts, nil
}

func (r *repository) ListByCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]orderdomain.Order, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var orders []orderdomain.Order
	err := r.conn(tx).WithContext(ctx).
		Where("code_ref IN ?", codes).
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListAttached(ctx context.Context, tx *gorm.DB) ([]orderdomain.Order, error) {
	var orders []orderdomain.Order
	err := r.conn(tx).WithContext(ctx).
		Preload("Items").
		Where("code_ref IS NOT NULL").
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListTerminalAttached(ctx context.Context, tx *gorm.DB) ([]orderdomain.Order, error) {
	var orders []orderdomain.Order
	err := r.conn(tx).WithContext(ctx).
		Where("code_ref IS NOT NULL AND status IN ?", []orderdomain.Status{
			orderdomain.StatusEntregue,
			orderdomain.StatusCancelado,
		}).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// History keeps detached orders visible; purged tabs remain part of the
// financial record even after their code went back to the pool.
func (r *repository) History(ctx context.Context, tx *gorm.DB, req orderdomain.HistoryRequest) ([]orderdomain.Order, error) {
	stmt := r.conn(tx).WithContext(ctx).
		Model(&orderdomain.Order{})

	if req.Status != nil {
		stmt = stmt.Where("status = ?", *req.Status)
	} else if req.OnlyFinalized {
		stmt = stmt.Where("status IN ?", []orderdomain.Status{
			orderdomain.StatusEntregue,
			orderdomain.StatusCancelado,
		})
	}
	if req.DateFrom != nil {
		stmt = stmt.Where("created_at >= ?", *req.DateFrom)
	}
	if req.DateTo != nil {
		stmt = stmt.Where("created_at <= ?", *req.DateTo)
	}
	if req.Limit > 0 {
		stmt = stmt.Limit(req.Limit)
	}

	var orders []orderdomain.Order
	if err := stmt.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) Suggestions(ctx context.Context, tx *gorm.DB, limit int) (orderdomain.SuggestionRows, error) {
	var rows orderdomain.SuggestionRows
	err := r.conn(tx).WithContext(ctx).Raw(
		`SELECT p.id AS product_id,
		        p.name AS name,
		        p.image_url AS image_url,
		        p.price AS price,
		        COALESCE(SUM(i.quantity), 0) AS total_quantity
		 FROM products p
		 JOIN order_items i ON i.product_id = p.id
		 JOIN orders o ON o.id = i.order_id
		 WHERE o.code_ref IS NOT NULL AND o.status <> ?
		 GROUP BY p.id, p.name, p.image_url, p.price
		 ORDER BY total_quantity DESC, p.name ASC
		 LIMIT ?`,
		orderdomain.StatusCancelado,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateItem(ctx context.Context, tx *gorm.DB, item *orderdomain.Item) error {
	return r.conn(tx).WithContext(ctx).Omit("Additions").Create(item).Error
}

func (r *repository) FindItem(ctx context.Context, tx *gorm.DB, orderID, itemID int64) (*orderdomain.Item, error) {
	var item orderdomain.Item
	err := r.conn(tx).WithContext(ctx).
		Preload("Additions", func(db *gorm.DB) *gorm.DB { return db.Order("order_item_additions.id ASC") }).
		Where("id = ? AND order_id = ?", itemID, orderID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) SaveItem(ctx context.Context, tx *gorm.DB, item *orderdomain.Item) error {
	return r.conn(tx).WithContext(ctx).Omit("Additions").Save(item).Error
}

func (r *repository) DeleteItem(ctx context.Context, tx *gorm.DB, item *orderdomain.Item) error {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.Exec(`DELETE FROM order_item_additions WHERE item_id = ?`, item.ID).Error; err != nil {
		return err
	}
	return conn.Delete(&orderdomain.Item{}, "id = ?", item.ID).Error
}

func (r *repository) ReplaceItemAdditions(ctx context.Context, tx *gorm.DB, itemID int64, rows []orderdomain.ItemAddition) error {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.Exec(`DELETE FROM order_item_additions WHERE item_id = ?`, itemID).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ItemID = itemID
	}
	return conn.Create(&rows).Error
}

func (r *repository) SumItemSubtotals(ctx context.Context, tx *gorm.DB, orderID int64) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := r.conn(tx).WithContext(ctx).
		Table("order_items").
		Select("COALESCE(SUM(subtotal), 0) AS total").
		Where("order_id = ?", orderID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *repository) ProductNames(ctx context.Context, tx *gorm.DB, productIDs []int64) (map[int64]string, error) {
	return r.names(ctx, tx, "products", productIDs)
}

func (r *repository) AdditionNames(ctx context.Context, tx *gorm.DB, additionIDs []int64) (map[int64]string, error) {
	return r.names(ctx, tx, "additions", additionIDs)
}

func (r *repository) names(ctx context.Context, tx *gorm.DB, table string, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   int64  `gorm:"column:id"`
		Name string `gorm:"column:name"`
	}
	err := r.conn(tx).WithContext(ctx).
		Table(table).
		Select("id, name").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *repository) AllowedAdditionIDs(ctx context.Context, tx *gorm.DB, productID int64) (map[int64]struct{}, error) {
	var ids []int64
	err := r.conn(tx).WithContext(ctx).
		Table("product_additions").
		Where("product_id = ?", productID).
		Pluck("addition_id", &ids).Error
	if err != nil {
		return nil, err
	}
	allowed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	return allowed, nil
}

func (r *repository) SaveSnapshot(ctx context.Context, tx *gorm.DB, snapshot *orderdomain.KitchenSnapshot) error {
	return r.conn(tx).WithContext(ctx).Create(snapshot).Error
}

func (r *repository) LastSnapshot(ctx context.Context, tx *gorm.DB, orderID int64) (*orderdomain.KitchenSnapshot, error) {
	var snapshot orderdomain.KitchenSnapshot
	err := r.conn(tx).WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id DESC").
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
