package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/tmdt/furnishop/internal/core/domain"
)

func (r *Repository) GetVoucherByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	statement := r.db.QueryBuilder.
		Select("id", "code", "name", "discount_type", "discount_value",
			"min_order_amount", "max_discount_amount",
			"usage_limit", "used_count", "start_date", "end_date", "is_active").
		From("vouchers").
		Where(sq.Eq{"code": code})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	voucher := domain.Voucher{}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&voucher.ID,
		&voucher.Code,
		&voucher.Name,
		&voucher.DiscountType,
		&voucher.DiscountValue,
		&voucher.MinOrderAmount,
		&voucher.MaxDiscountAmount,
		&voucher.UsageLimit,
		&voucher.UsedCount,
		&voucher.StartDate,
		&voucher.EndDate,
		&voucher.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &voucher, nil
}
