package service

import (
	"context"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	productdomain "github.com/balcaopos/comanda/internal/product/domain"
	"github.com/balcaopos/comanda/pkg/money"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) AddItem(ctx context.Context, orderID int64, req orderdomain.ItemRequest) (*orderdomain.Detail, error) {
	if req.Quantity <= 0 {
		return nil, orderdomain.ErrInvalidQuantity
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.attachedOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.Editable() {
			return orderdomain.ErrNotEditable
		}

		product, err := s.activeProduct(ctx, tx, req.ProductID)
		if err != nil {
			return err
		}

		if order.Status.ControlsStock() {
			if _, err := s.ledger.Decrement(ctx, tx, product.ID, req.Quantity); err != nil {
				return err
			}
		}

		item := &orderdomain.Item{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
			UnitPrice: money.Round(product.Price),
			Discount:  req.Discount,
			Notes:     normalizeOptional(req.Notes),
		}
		if err := s.repo.CreateItem(ctx, tx, item); err != nil {
			return err
		}
		if err := s.replaceAdditions(ctx, tx, item, req.Additions, product.ID); err != nil {
			return err
		}
		if err := item.Recalculate(); err != nil {
			return err
		}
		if err := s.repo.SaveItem(ctx, tx, item); err != nil {
			return err
		}
		return s.recalculateTotal(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return s.Get(ctx, orderID)
}

func (s *Service) UpdateItem(ctx context.Context, orderID, itemID int64, req orderdomain.ItemRequest) (*orderdomain.Detail, error) {
	if req.Quantity <= 0 {
		return nil, orderdomain.ErrInvalidQuantity
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.attachedOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.Editable() {
			return orderdomain.ErrNotEditable
		}

		item, err := s.repo.FindItem(ctx, tx, orderID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return orderdomain.ErrItemNotFound
		}

		nextProductID := item.ProductID
		if req.ProductID != 0 {
			nextProductID = req.ProductID
		}
		product, err := s.activeProduct(ctx, tx, nextProductID)
		if err != nil {
			return err
		}

		if order.Status.ControlsStock() {
			err := s.ledger.AdjustForItemChange(ctx, tx,
				item.ProductID, item.Quantity,
				product.ID, req.Quantity,
			)
			if err != nil {
				return err
			}
		}

		item.ProductID = product.ID
		item.UnitPrice = money.Round(product.Price)
		item.Quantity = req.Quantity
		item.Discount = req.Discount
		item.Notes = normalizeOptional(req.Notes)
		if err := s.replaceAdditions(ctx, tx, item, req.Additions, product.ID); err != nil {
			return err
		}
		if err := item.Recalculate(); err != nil {
			return err
		}
		if err := s.repo.SaveItem(ctx, tx, item); err != nil {
			return err
		}
		return s.recalculateTotal(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return s.Get(ctx, orderID)
}

func (s *Service) DeleteItem(ctx context.Context, orderID, itemID int64, req orderdomain.DeleteItemRequest) (*orderdomain.Detail, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.attachedOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.Status == orderdomain.StatusCancelado {
			return orderdomain.ErrCancelledImmutable
		}
		if order.Status == orderdomain.StatusEntregue && !req.Force {
			return orderdomain.ErrNotEditable
		}

		item, err := s.repo.FindItem(ctx, tx, orderID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return orderdomain.ErrItemNotFound
		}

		// Deletes from live tabs return stock unless a forced delete opts
		// out. Delivered orders keep their consumption unless the caller
		// explicitly asks for it back.
		restock := true
		if order.Status == orderdomain.StatusEntregue {
			restock = req.Restock != nil && *req.Restock
		} else if req.Force && req.Restock != nil {
			restock = *req.Restock
		}
		if restock && order.Status.ControlsStock() {
			if _, err := s.ledger.Increment(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := s.repo.DeleteItem(ctx, tx, item); err != nil {
			return err
		}
		return s.recalculateTotal(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return s.Get(ctx, orderID)
}

// MoveItem transfers one item to another open tab. Stock only moves when the
// two orders disagree on stock control.
func (s *Service) MoveItem(ctx context.Context, orderID, itemID, destOrderID int64) (*orderdomain.Detail, error) {
	if orderID == destOrderID {
		return nil, orderdomain.ErrSameOrder
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		source, err := s.attachedOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		dest, err := s.attachedOrder(ctx, tx, destOrderID)
		if err != nil {
			return err
		}
		if !source.Status.Editable() || !dest.Status.Editable() {
			return orderdomain.ErrNotEditable
		}

		item, err := s.repo.FindItem(ctx, tx, orderID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return orderdomain.ErrItemNotFound
		}

		sourceControls := source.Status.ControlsStock()
		destControls := dest.Status.ControlsStock()
		if sourceControls && !destControls {
			if _, err := s.ledger.Increment(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		} else if !sourceControls && destControls {
			if _, err := s.ledger.Decrement(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		moved := &orderdomain.Item{
			OrderID:   dest.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Subtotal:  item.Subtotal,
			Notes:     item.Notes,
		}
		if err := s.repo.CreateItem(ctx, tx, moved); err != nil {
			return err
		}

		rows := make([]orderdomain.ItemAddition, 0, len(item.Additions))
		for _, ad := range item.Additions {
			rows = append(rows, orderdomain.ItemAddition{
				AdditionID: ad.AdditionID,
				Quantity:   ad.Quantity,
				UnitPrice:  ad.UnitPrice,
				Subtotal:   ad.Subtotal,
			})
		}
		if err := s.repo.ReplaceItemAdditions(ctx, tx, moved.ID, rows); err != nil {
			return err
		}

		if err := s.repo.DeleteItem(ctx, tx, item); err != nil {
			return err
		}
		if err := s.recalculateTotal(ctx, tx, source); err != nil {
			return err
		}
		return s.recalculateTotal(ctx, tx, dest)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("item moved",
		zap.Int64("item_id", itemID),
		zap.Int64("from_order", orderID),
		zap.Int64("to_order", destOrderID),
	)
	return s.Get(ctx, orderID)
}

// replaceAdditions swaps the item's addition rows for the requested set.
// Duplicate addition references are merged by summing quantities, so one
// reference never yields two rows.
func (s *Service) replaceAdditions(ctx context.Context, tx *gorm.DB, item *orderdomain.Item, reqs []orderdomain.AdditionRequest, productID int64) error {
	if len(reqs) == 0 {
		item.Additions = nil
		return s.repo.ReplaceItemAdditions(ctx, tx, item.ID, nil)
	}

	merged := make(map[int64]int, len(reqs))
	order := make([]int64, 0, len(reqs))
	for _, req := range reqs {
		if req.Quantity <= 0 {
			return orderdomain.ErrInvalidQuantity
		}
		if _, seen := merged[req.AdditionID]; !seen {
			order = append(order, req.AdditionID)
		}
		merged[req.AdditionID] += req.Quantity
	}

	allowed, err := s.repo.AllowedAdditionIDs(ctx, tx, productID)
	if err != nil {
		return err
	}

	catalog, err := s.additions.FindByIDs(ctx, tx, order)
	if err != nil {
		return err
	}
	byID := make(map[int64]*additiondomain.Addition, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	rows := make([]orderdomain.ItemAddition, 0, len(order))
	for _, additionID := range order {
		if len(allowed) > 0 {
			if _, ok := allowed[additionID]; !ok {
				return orderdomain.ErrAdditionNotAllowed
			}
		}
		addition, ok := byID[additionID]
		if !ok {
			return additiondomain.ErrNotFound
		}
		if !addition.Active {
			return orderdomain.ErrAdditionInactive
		}

		quantity := merged[additionID]
		price := money.Round(addition.Price)
		rows = append(rows, orderdomain.ItemAddition{
			AdditionID: additionID,
			Quantity:   quantity,
			UnitPrice:  price,
			Subtotal:   money.MulQty(price, quantity),
		})
	}

	if err := s.repo.ReplaceItemAdditions(ctx, tx, item.ID, rows); err != nil {
		return err
	}
	item.Additions = rows
	return nil
}

// recalculateTotal re-sums the order total from persisted item subtotals.
func (s *Service) recalculateTotal(ctx context.Context, tx *gorm.DB, order *orderdomain.Order) error {
	total, err := s.repo.SumItemSubtotals(ctx, tx, order.ID)
	if err != nil {
		return err
	}
	order.Total = money.Round(total)
	return s.repo.Save(ctx, tx, order)
}

// attachedOrder loads an order for mutation. Detached orders are readable
// history; mutations treat them as missing.
func (s *Service) attachedOrder(ctx context.Context, tx *gorm.DB, orderID int64) (*orderdomain.Order, error) {
	order, err := s.repo.FindByID(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.CodeRef == nil {
		return nil, orderdomain.ErrNotFound
	}
	return order, nil
}

func (s *Service) activeProduct(ctx context.Context, tx *gorm.DB, productID int64) (*productdomain.Product, error) {
	product, err := s.products.FindByID(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, productdomain.ErrNotFound
	}
	if !product.Active {
		return nil, orderdomain.ErrProductInactive
	}
	return product, nil
}
