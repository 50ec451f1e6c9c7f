package service

import (
	"context"
	"fmt"
	"time"

	"github.com/govalues/decimal"
	"github.com/tmdt/furnishop/internal/core/domain"
)

// voucherDiscount validates the voucher against the subtotal and computes the
// discount. The usage-count check here is advisory: the authoritative guard
// is the conditional increment inside the checkout transaction.
func voucherDiscount(v *domain.Voucher, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if !v.IsActive {
		return decimal.Zero, domain.ErrVoucherNotActive
	}
	if now.Before(v.StartDate) || now.After(v.EndDate) {
		return decimal.Zero, domain.ErrVoucherExpired
	}
	if v.UsedCount >= v.UsageLimit {
		return decimal.Zero, domain.ErrVoucherExhausted
	}
	if v.MinOrderAmount != nil && subtotal.Cmp(*v.MinOrderAmount) < 0 {
		return decimal.Zero, domain.ErrVoucherMinAmount
	}

	var discount decimal.Decimal
	switch v.DiscountType {
	case domain.DiscountTypePercentage:
		d, err := subtotal.Mul(v.DiscountValue)
		if err != nil {
			return decimal.Zero, fmt.Errorf("math error:%w", err)
		}
		d, err = d.Quo(decimal.Hundred)
		if err != nil {
			return decimal.Zero, fmt.Errorf("math error:%w", err)
		}
		if v.MaxDiscountAmount != nil && d.Cmp(*v.MaxDiscountAmount) > 0 {
			d = *v.MaxDiscountAmount
		}
		discount = d
	default:
		discount = v.DiscountValue
	}

	// A discount never exceeds what the customer would have paid.
	if discount.Cmp(subtotal) > 0 {
		discount = subtotal
	}

	return discount, nil
}

func (s *Service) PreviewVoucher(ctx context.Context, code string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	voucher, err := s.repo.GetVoucherByCode(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	return voucherDiscount(voucher, subtotal, time.Now())
}
