package service

import (
	"context"

	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// restocksOnRelease says whether cancelling or deleting an order in this
// status returns its items to stock. Delivered orders keep their consumption.
func restocksOnRelease(status orderdomain.Status) bool {
	return status == orderdomain.StatusEmPreparo || status == orderdomain.StatusPronto
}

// restockItems returns grouped quantities to stock and reports how many units
// actually moved. Uncontrolled products move nothing.
func (s *Service) restockItems(ctx context.Context, tx *gorm.DB, items []orderdomain.Item) (int, error) {
	restored := 0
	for productID, qty := range groupQuantities(items) {
		moved, err := s.ledger.Increment(ctx, tx, productID, qty)
		if err != nil {
			return restored, err
		}
		if moved {
			restored += qty
		}
	}
	return restored, nil
}

// ResetAll cancels every tab still holding a code and releases the codes.
// Codes left marked busy without any attached order are swept as well.
func (s *Service) ResetAll(ctx context.Context) (*orderdomain.ResetResult, error) {
	result := &orderdomain.ResetResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders, err := s.repo.ListAttached(ctx, tx)
		if err != nil {
			return err
		}

		released := make(map[string]struct{})
		for i := range orders {
			order := &orders[i]
			result.ItemsAffected += len(order.Items)

			if restocksOnRelease(order.Status) {
				restored, err := s.restockItems(ctx, tx, order.Items)
				if err != nil {
					return err
				}
				result.StockRestored += restored
			}

			if order.CodeRef != nil {
				released[*order.CodeRef] = struct{}{}
			}
			order.Status = orderdomain.StatusCancelado
			order.CodeRef = nil
			if err := s.repo.Save(ctx, tx, order); err != nil {
				return err
			}
			result.TabsReset++
		}

		codes := make([]string, 0, len(released))
		for code := range released {
			codes = append(codes, code)
		}
		if err := s.codes.Release(ctx, tx, codes...); err != nil {
			return err
		}

		// Codes can be left busy by interrupted flows even with no order
		// attached; sweep those too.
		records, err := s.codes.List(ctx, tx, codedomain.ListFilter{})
		if err != nil {
			return err
		}
		var stale []string
		for i := range records {
			record := &records[i]
			if _, done := released[record.Code]; done {
				continue
			}
			if record.InUse || record.VisualStatus != codedomain.VisualLiberado {
				stale = append(stale, record.Code)
			}
		}
		if err := s.codes.Release(ctx, tx, stale...); err != nil {
			return err
		}

		result.CodesReleased = len(codes) + len(stale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("all tabs reset",
		zap.Int("tabs", result.TabsReset),
		zap.Int("codes_released", result.CodesReleased),
		zap.Int("stock_restored", result.StockRestored),
	)
	return result, nil
}

// ResetOne cancels a single tab and frees its code.
func (s *Service) ResetOne(ctx context.Context, orderID int64) (*orderdomain.ResetOneResult, error) {
	result := &orderdomain.ResetOneResult{OrderID: orderID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.attachedOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		result.Code = order.DisplayCode()
		result.PreviousStatus = order.Status

		if restocksOnRelease(order.Status) {
			restored, err := s.restockItems(ctx, tx, order.Items)
			if err != nil {
				return err
			}
			result.StockRestored = restored
		}

		code := order.CodeRef
		order.Status = orderdomain.StatusCancelado
		order.CodeRef = nil
		if err := s.repo.Save(ctx, tx, order); err != nil {
			return err
		}

		if code != nil {
			if err := s.codes.Release(ctx, tx, *code); err != nil {
				return err
			}
			result.Released = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("tab reset", zap.Int64("order_id", orderID), zap.String("code", result.Code))
	return result, nil
}

// Delete removes a tab and everything attached to it. Items of in-progress
// tabs go back to stock.
func (s *Service) Delete(ctx context.Context, orderID int64) (*orderdomain.DeleteResult, error) {
	result := &orderdomain.DeleteResult{OrderID: orderID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.attachedOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		result.Code = order.DisplayCode()
		result.ItemsRemoved = len(order.Items)

		payments, err := s.payments.ListByOrder(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		result.PaymentsRemoved = len(payments)

		if restocksOnRelease(order.Status) {
			restored, err := s.restockItems(ctx, tx, order.Items)
			if err != nil {
				return err
			}
			result.StockRestored = restored
		}

		if order.CodeRef != nil {
			if err := s.codes.Release(ctx, tx, *order.CodeRef); err != nil {
				return err
			}
		}
		return s.repo.Delete(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("tab deleted", zap.Int64("order_id", orderID), zap.String("code", result.Code))
	return result, nil
}
