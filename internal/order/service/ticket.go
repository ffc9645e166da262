package service

import (
	"context"

	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	"github.com/balcaopos/comanda/internal/order/kitchen"
	"gorm.io/gorm"
)

// Ticket builds the printable coupon. Kitchen tickets additionally diff the
// current items against the last printed snapshot and persist the new one;
// regular coupons leave the snapshot history alone.
func (s *Service) Ticket(ctx context.Context, orderID int64, kitchenTicket, alteration bool) (*orderdomain.Ticket, error) {
	var ticket *orderdomain.Ticket

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		detail, err := s.loadDetail(ctx, tx, orderID)
		if err != nil {
			return err
		}

		ticket = &orderdomain.Ticket{
			OrderID:      detail.ID,
			Code:         detail.Code,
			Table:        detail.Table,
			Status:       detail.Status,
			DeliveryType: detail.DeliveryType,
			Notes:        detail.Notes,
			TotalItems:   detail.TotalItems,
			Complexity:   detail.Complexity,
			Alteration:   alteration,
			CreatedAt:    detail.CreatedAt,
			Total:        detail.Payment.Total,
			Paid:         detail.Payment.Paid,
			Outstanding:  detail.Payment.Outstanding,
			Items:        detail.Items,
		}
		if !kitchenTicket {
			return nil
		}

		current := kitchen.Build(detail.Items)

		var previous []kitchen.SnapshotItem
		last, err := s.repo.LastSnapshot(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if last != nil {
			previous = kitchen.Decode(last.Payload)
		}
		ticket.KitchenDiff = kitchen.Diff(previous, current)

		payload, err := kitchen.Encode(current)
		if err != nil {
			return err
		}
		return s.repo.SaveSnapshot(ctx, tx, &orderdomain.KitchenSnapshot{
			OrderID: orderID,
			Payload: payload,
		})
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}
