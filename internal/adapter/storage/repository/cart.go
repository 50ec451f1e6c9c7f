package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/tmdt/furnishop/internal/core/domain"
)

func (r *Repository) ListCartItems(ctx context.Context, userID uint64) ([]domain.CartItem, error) {
	statement := r.db.QueryBuilder.
		Select("id", "user_id", "product_id", "product_name", "quantity", "unit_price").
		From("cart_items").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]domain.CartItem, 0)
	for rows.Next() {
		item := domain.CartItem{}
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return list, nil
}

// UpsertCartItem adds the product to the cart, or bumps the quantity when the
// line already exists. The unit price snapshot of the first add is kept.
func (r *Repository) UpsertCartItem(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	statement := r.db.QueryBuilder.
		Insert("cart_items").
		Columns("user_id", "product_id", "product_name", "quantity", "unit_price").
		Values(item.UserID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice).
		Suffix("on conflict (user_id, product_id) do update set quantity = cart_items.quantity + excluded.quantity").
		Suffix("returning id, quantity, unit_price")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&item.ID, &item.Quantity, &item.UnitPrice)
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *Repository) RemoveCartItem(ctx context.Context, userID uint64, itemID uint64) error {
	statement := r.db.QueryBuilder.
		Delete("cart_items").
		Where(sq.Eq{"user_id": userID, "id": itemID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}

	return nil
}
