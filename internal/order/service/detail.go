package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	paymentdomain "github.com/balcaopos/comanda/internal/payment/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (s *Service) loadDetail(ctx context.Context, tx *gorm.DB, orderID int64) (*orderdomain.Detail, error) {
	order, err := s.repo.FindByID(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, orderdomain.ErrNotFound
	}
	return s.buildDetail(ctx, tx, order)
}

func (s *Service) buildDetail(ctx context.Context, tx *gorm.DB, order *orderdomain.Order) (*orderdomain.Detail, error) {
	items, err := s.buildItemDetails(ctx, tx, order)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.ListByOrder(ctx, tx, order.ID)
	if err != nil {
		return nil, err
	}

	totalItems := order.TotalItems()
	return &orderdomain.Detail{
		ID:           order.ID,
		Code:         order.DisplayCode(),
		Table:        order.TableLabel,
		Status:       order.Status,
		DeliveryType: order.DeliveryType,
		Notes:        order.Notes,
		Total:        order.Total,
		TotalItems:   totalItems,
		Complexity:   orderdomain.ComplexityLabel(totalItems),
		CreatedAt:    order.CreatedAt,
		Items:        items,
		Payment:      paymentdomain.Summarize(order.Total, payments),
	}, nil
}

func (s *Service) buildItemDetails(ctx context.Context, tx *gorm.DB, order *orderdomain.Order) ([]orderdomain.ItemDetail, error) {
	productIDs := make([]int64, 0, len(order.Items))
	var additionIDs []int64
	for i := range order.Items {
		productIDs = append(productIDs, order.Items[i].ProductID)
		for j := range order.Items[i].Additions {
			additionIDs = append(additionIDs, order.Items[i].Additions[j].AdditionID)
		}
	}

	productNames, err := s.repo.ProductNames(ctx, tx, productIDs)
	if err != nil {
		return nil, err
	}
	additionNames, err := s.repo.AdditionNames(ctx, tx, additionIDs)
	if err != nil {
		return nil, err
	}

	items := make([]orderdomain.ItemDetail, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]

		additions := make([]orderdomain.AdditionDetail, 0, len(item.Additions))
		for j := range item.Additions {
			ad := &item.Additions[j]
			name, ok := additionNames[ad.AdditionID]
			if !ok {
				name = fmt.Sprintf("Adicional %d", ad.AdditionID)
			}
			additions = append(additions, orderdomain.AdditionDetail{
				ID:         ad.ID,
				AdditionID: ad.AdditionID,
				Name:       name,
				Quantity:   ad.Quantity,
				UnitPrice:  ad.UnitPrice,
				Subtotal:   ad.Subtotal,
			})
		}

		productName, ok := productNames[item.ProductID]
		if !ok {
			productName = fmt.Sprintf("Produto %d", item.ProductID)
		}
		items = append(items, orderdomain.ItemDetail{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: productName,
			Quantity:    item.Quantity,
			Notes:       item.Notes,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			Subtotal:    item.Subtotal,
			Additions:   additions,
		})
	}
	return items, nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func deref[T any](p *T) any {
	if p == nil {
		return ""
	}
	return *p
}

func timeKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func decimalKey(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
