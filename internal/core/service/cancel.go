package service

import (
	"context"

	"github.com/tmdt/furnishop/internal/core/domain"
	"github.com/tmdt/furnishop/internal/core/port"
	"go.uber.org/zap"
)

// RequestCancel moves a PENDING or CONFIRMED order to CANCEL_REQUESTED and
// records the customer's reason in the order notes.
func (s *Service) RequestCancel(ctx context.Context, orderID uint64, userID uint64, reason string) (*domain.Order, error) {
	return s.repo.TransitionOrder(ctx, orderID, func(o *domain.Order) (*port.OrderEffects, error) {
		if o.UserID != userID {
			return nil, domain.ErrForbidden
		}
		if err := o.Transition(domain.OrderStatusCancelRequested); err != nil {
			return nil, err
		}
		o.Notes = appendNote(o.Notes, "[cancel requested]: "+reason)
		return nil, nil
	})
}

// ApproveCancel finalizes the cancellation: every line is restocked exactly
// once, and a successfully paid order is refunded to the wallet in the same
// transaction. Cash-on-delivery orders are marked settled without moving any
// funds. The per-order row lock serializes this against a concurrent gateway
// confirmation.
func (s *Service) ApproveCancel(ctx context.Context, orderID uint64) (*domain.Order, error) {
	order, err := s.repo.TransitionOrder(ctx, orderID, func(o *domain.Order) (*port.OrderEffects, error) {
		if err := o.Transition(domain.OrderStatusCancelled); err != nil {
			return nil, err
		}

		effects := &port.OrderEffects{Restock: true}

		if o.PaymentStatus == domain.PaymentStatusSuccess {
			if o.PaymentMethod == domain.PaymentMethodCOD {
				// Settled, no money ever moved.
				o.PaymentStatus = domain.PaymentStatusSettled
			} else {
				o.PaymentStatus = domain.PaymentStatusRefunded
				effects.WalletCredit = &domain.WalletTransaction{
					UserID:      o.UserID,
					Amount:      o.TotalAmount,
					Type:        domain.TransactionTypeRefund,
					Description: "refund for cancelled order " + o.Code,
					OrderCode:   o.Code,
				}
			}
		}

		return effects, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.String("order", order.Code),
		zap.String("payment_status", string(order.PaymentStatus)))

	return order, nil
}

// RejectCancel returns a CANCEL_REQUESTED order to CONFIRMED.
func (s *Service) RejectCancel(ctx context.Context, orderID uint64, reason string) (*domain.Order, error) {
	return s.repo.TransitionOrder(ctx, orderID, func(o *domain.Order) (*port.OrderEffects, error) {
		if o.OrderStatus != domain.OrderStatusCancelRequested {
			return nil, &domain.TransitionError{From: o.OrderStatus, To: domain.OrderStatusConfirmed}
		}
		o.OrderStatus = domain.OrderStatusConfirmed
		o.Notes = appendNote(o.Notes, "[cancel rejected]: "+reason)
		return nil, nil
	})
}

// UpdateOrderStatus drives the forward order lifecycle. Entering CANCELLED
// always goes through the cancellation workflow, never a bare status flip.
// Delivery of a not-yet-paid order settles it as paid (the COD case).
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) (*domain.Order, error) {
	if status == domain.OrderStatusCancelled {
		return s.ApproveCancel(ctx, orderID)
	}

	return s.repo.TransitionOrder(ctx, orderID, func(o *domain.Order) (*port.OrderEffects, error) {
		if err := o.Transition(status); err != nil {
			return nil, err
		}
		if status == domain.OrderStatusDelivered && o.PaymentStatus != domain.PaymentStatusSuccess {
			o.PaymentStatus = domain.PaymentStatusSuccess
		}
		return nil, nil
	})
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + " | " + note
}
