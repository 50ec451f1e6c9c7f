package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/tmdt/furnishop/internal/core/domain"
	"github.com/tmdt/furnishop/internal/core/port"
	"go.uber.org/zap"
)

func newOrderCode() string {
	return fmt.Sprintf("ORD%d%s", time.Now().UnixMilli(),
		strings.ToUpper(uuid.NewString()[:4]))
}

// Checkout turns the user's cart into an order. Stock is validated for every
// line before any line is committed; the repository re-checks each guard
// under row locks, so a concurrent checkout racing on the same product,
// voucher or balance rolls back whole. Wallet-paid orders are only confirmed
// once the debit succeeded inside the same transaction.
func (s *Service) Checkout(ctx context.Context, in *port.CheckoutInput) (*domain.Order, error) {
	items, err := s.repo.ListCartItems(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// Phase one: validate all lines, mutate nothing.
	subtotal := decimal.Zero
	lines := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		product, err := s.repo.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.StockQuantity < item.Quantity {
			return nil, &domain.StockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.StockQuantity,
			}
		}

		lineTotal, err := item.TotalPrice()
		if err != nil {
			return nil, fmt.Errorf("math error:%w", err)
		}
		subtotal, err = subtotal.Add(lineTotal)
		if err != nil {
			return nil, fmt.Errorf("math error:%w", err)
		}

		lines = append(lines, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  lineTotal,
		})
	}

	discount := decimal.Zero
	var voucherID *uint64
	if in.VoucherCode != "" {
		voucher, err := s.repo.GetVoucherByCode(ctx, in.VoucherCode)
		if err != nil {
			return nil, err
		}
		discount, err = voucherDiscount(voucher, subtotal, time.Now())
		if err != nil {
			return nil, err
		}
		voucherID = &voucher.ID
	}

	fee := s.shippingFee(in.ShippingProvince)

	total, err := subtotal.Sub(discount)
	if err != nil {
		return nil, fmt.Errorf("math error:%w", err)
	}
	total, err = total.Add(fee)
	if err != nil {
		return nil, fmt.Errorf("math error:%w", err)
	}
	if total.Cmp(decimal.Zero) < 0 {
		total = decimal.Zero
	}

	order := &domain.Order{
		Code:             newOrderCode(),
		UserID:           in.UserID,
		CustomerName:     in.CustomerName,
		CustomerPhone:    in.CustomerPhone,
		CustomerEmail:    in.CustomerEmail,
		ShippingAddress:  in.ShippingAddress,
		ShippingProvince: in.ShippingProvince,
		ShippingDistrict: in.ShippingDistrict,
		ShippingWard:     in.ShippingWard,
		OrderStatus:      domain.OrderStatusPending,
		PaymentMethod:    in.PaymentMethod,
		PaymentStatus:    domain.PaymentStatusPending,
		Subtotal:         subtotal,
		DiscountAmount:   discount,
		ShippingFee:      fee,
		TotalAmount:      total,
		VoucherID:        voucherID,
		Notes:            in.Notes,
		Items:            lines,
		CreatedAt:        time.Now(),
	}

	var debit *domain.WalletTransaction
	if in.PaymentMethod == domain.PaymentMethodWallet {
		// The whole checkout aborts if the debit guard fails in-transaction.
		order.OrderStatus = domain.OrderStatusConfirmed
		order.PaymentStatus = domain.PaymentStatusSuccess
		debit = &domain.WalletTransaction{
			UserID:      in.UserID,
			Amount:      total.Neg(),
			Type:        domain.TransactionTypePayment,
			Description: "order payment " + order.Code,
			OrderCode:   order.Code,
		}
	}

	placed, err := s.repo.PlaceOrder(ctx, order, debit)
	if err != nil {
		return nil, err
	}

	go func() {
		err := s.notifier.SendOrderConfirmation(context.Background(),
			placed.CustomerEmail, placed.Code)
		if err != nil {
			s.logger.Warn("order confirmation notification failed",
				zap.String("order", placed.Code), zap.Error(err))
		}
	}()

	return placed, nil
}

func (s *Service) GetOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error) {
	list, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Get orders for user", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *Service) GetOrderByCode(ctx context.Context, code string) (*domain.Order, error) {
	return s.repo.GetOrderByCode(ctx, code)
}
