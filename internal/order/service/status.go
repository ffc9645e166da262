package service

import (
	"context"
	"fmt"
	"strings"

	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const reopenNoteFormat = "02/01/2006 15:04"

func (s *Service) ChangeStatus(ctx context.Context, orderID int64, req orderdomain.ChangeStatusRequest) (*orderdomain.Detail, error) {
	next, err := orderdomain.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	changed := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.attachedOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.Status == next {
			return nil
		}
		if !order.Status.CanTransitionTo(next) {
			return &orderdomain.InvalidTransitionError{From: order.Status, To: next}
		}

		switch {
		case order.Status == orderdomain.StatusAberto && next == orderdomain.StatusEmPreparo:
			if len(order.Items) == 0 {
				return orderdomain.ErrEmptyOrder
			}
			if err := s.ledger.DecrementBatch(ctx, tx, groupQuantities(order.Items)); err != nil {
				return err
			}

		case next == orderdomain.StatusCancelado && order.Status.ControlsStock():
			restock := true
			if req.Restock != nil {
				restock = *req.Restock
			}
			if restock {
				if err := s.ledger.IncrementBatch(ctx, tx, groupQuantities(order.Items)); err != nil {
					return err
				}
			}

		case order.Status == orderdomain.StatusEntregue && next == orderdomain.StatusEmPreparo:
			if !req.ConfirmReopen {
				return orderdomain.ErrReopenConfirm
			}
			reason := ""
			if req.Reason != nil {
				reason = strings.TrimSpace(*req.Reason)
			}
			if reason == "" {
				return orderdomain.ErrReopenReason
			}
			note := fmt.Sprintf("[Reabertura %s] %s", s.clk.Now().Format(reopenNoteFormat), reason)
			if order.Notes != nil && strings.TrimSpace(*order.Notes) != "" {
				note = *order.Notes + "\n" + note
			}
			order.Notes = &note
		}

		order.Status = next
		if err := s.repo.Save(ctx, tx, order); err != nil {
			return err
		}

		if order.CodeRef != nil {
			record, err := s.codes.FindByCode(ctx, tx, *order.CodeRef)
			if err != nil {
				return err
			}
			if record != nil {
				record.VisualStatus = codedomain.NormalizeVisualStatus(string(next))
				record.InUse = !next.Terminal()
				if err := s.codes.Save(ctx, tx, record); err != nil {
					return err
				}
			}
		}

		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.cache.Invalidate()
		s.log.Info("status changed",
			zap.Int64("order_id", orderID),
			zap.String("status", string(next)),
		)
	}
	return s.Get(ctx, orderID)
}

// groupQuantities sums item quantities per product for batch stock moves.
func groupQuantities(items []orderdomain.Item) map[int64]int {
	grouped := make(map[int64]int, len(items))
	for i := range items {
		grouped[items[i].ProductID] += items[i].Quantity
	}
	return grouped
}
