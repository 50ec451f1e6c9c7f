package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tmdt/furnishop/internal/core/domain"
	"github.com/tmdt/furnishop/internal/core/port"
	"go.uber.org/zap"
)

// PayOrder creates a gateway payment for an existing order. A timed-out or
// declined gateway call leaves the order untouched in PENDING.
func (s *Service) PayOrder(ctx context.Context, orderID uint64, userID uint64) (*domain.Payment, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if order.OrderStatus == domain.OrderStatusCancelRequested ||
		order.OrderStatus == domain.OrderStatusCancelled {
		return nil, domain.ErrOrderNotPayable
	}
	switch order.PaymentStatus {
	case domain.PaymentStatusSuccess:
		return nil, domain.ErrOrderAlreadyPaid
	case domain.PaymentStatusRefunded, domain.PaymentStatusSettled:
		// Cancellation already settled where the money went.
		return nil, domain.ErrOrderNotPayable
	}

	requestID := uuid.NewString()
	resp, err := s.gateway.CreatePayment(ctx, &port.GatewayRequest{
		RequestID: requestID,
		OrderRef:  order.Code,
		OrderInfo: "order payment " + order.Code,
		Amount:    order.TotalAmount,
		Purpose:   domain.PaymentPurposeOrder,
	})
	if err != nil {
		s.logger.Warn("order payment request failed",
			zap.String("order", order.Code), zap.Error(err))
		return nil, err
	}

	payment := &domain.Payment{
		OrderID:   &order.ID,
		UserID:    order.UserID,
		Purpose:   domain.PaymentPurposeOrder,
		OrderRef:  order.Code,
		RequestID: requestID,
		Amount:    order.TotalAmount,
		Status:    domain.PaymentStatusPending,
		PayURL:    resp.PayURL,
		Message:   resp.Message,
	}

	return s.repo.CreatePayment(ctx, payment)
}

// HandleGatewayCallback applies one IPN delivery. Deliveries are at-least-once
// and unordered, so the application is idempotent: a payment already settled
// as SUCCESS absorbs repeats without re-crediting a wallet or re-confirming
// an order. All row mutations commit together under per-row locks.
func (s *Service) HandleGatewayCallback(ctx context.Context, cb *domain.GatewayCallback) error {
	return s.repo.ReconcilePayment(ctx, cb.RequestID, func(p *domain.Payment, o *domain.Order) (*port.ReconcileEffects, error) {
		if p.Status == domain.PaymentStatusSuccess {
			return nil, domain.ErrDuplicateCallback
		}

		p.TransactionID = cb.TransID
		p.CallbackData = cb.Raw

		if cb.ResultCode != 0 {
			p.Status = domain.PaymentStatusFailed
			if o != nil {
				// Stock stays decremented; an operator resolves the order
				// through the cancellation flow.
				o.PaymentStatus = domain.PaymentStatusFailed
			}
			return &port.ReconcileEffects{}, nil
		}

		if p.Purpose == domain.PaymentPurposeTopUp && cb.Amount.Cmp(p.Amount) != 0 {
			// Never credit a wallet from a figure we did not request.
			s.logger.Error("callback amount does not match the payment",
				zap.String("request_id", p.RequestID),
				zap.String("expected", p.Amount.String()),
				zap.String("got", cb.Amount.String()))
			return nil, domain.ErrConflictingData
		}

		p.Status = domain.PaymentStatusSuccess

		switch p.Purpose {
		case domain.PaymentPurposeTopUp:
			return &port.ReconcileEffects{
				WalletCredit: &domain.WalletTransaction{
					UserID:      p.UserID,
					Amount:      p.Amount,
					Type:        domain.TransactionTypeDeposit,
					Description: "wallet top-up " + p.OrderRef,
					OrderCode:   p.OrderRef,
				},
			}, nil
		case domain.PaymentPurposeOrder:
			if o == nil {
				return nil, domain.ErrDataNotFound
			}
			if o.OrderStatus == domain.OrderStatusCancelled {
				// Paid after cancellation was approved. Keep the payment
				// settled for audit and leave the order to an operator.
				s.logger.Error("payment settled for a cancelled order",
					zap.String("order", o.Code),
					zap.String("request_id", p.RequestID))
				return &port.ReconcileEffects{}, nil
			}
			o.PaymentStatus = domain.PaymentStatusSuccess
			if o.OrderStatus == domain.OrderStatusPending {
				o.OrderStatus = domain.OrderStatusConfirmed
			}
			return &port.ReconcileEffects{}, nil
		default:
			return nil, domain.ErrInternal
		}
	})
}
