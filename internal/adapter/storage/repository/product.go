package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/tmdt/furnishop/internal/core/domain"
)

func (r *Repository) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	statement := r.db.QueryBuilder.
		Select("id", "name", "price", "sale_price", "stock_quantity", "sold_count").
		From("products").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	product := domain.Product{}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.SalePrice,
		&product.StockQuantity,
		&product.SoldCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &product, nil
}
