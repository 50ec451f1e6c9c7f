package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tmdt/furnishop/internal/core/domain"
	"github.com/tmdt/furnishop/internal/core/port"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PlaceOrder commits a checkout as one transaction: stock validation and
// decrement under product row locks, guarded voucher increment, optional
// guarded wallet debit with its ledger row, order+lines insert, cart clear.
// Any guard failure rolls the whole checkout back.
func (r *Repository) PlaceOrder(ctx context.Context, order *domain.Order, debit *domain.WalletTransaction) (*domain.Order, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		// Lock every product row first and validate all lines before any
		// decrement. Ordering by id keeps concurrent checkouts deadlock-free.
		if err := r.lockAndValidateStock(ctx, tx, order.Items); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := r.adjustStock(ctx, tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}

		if order.VoucherID != nil {
			if err := r.redeemVoucher(ctx, tx, *order.VoucherID); err != nil {
				return err
			}
		}

		if debit != nil {
			if err := r.applyWalletEntry(ctx, tx, debit); err != nil {
				return err
			}
		}

		if err := r.insertOrder(ctx, tx, order); err != nil {
			return err
		}

		clearSt := r.db.QueryBuilder.Delete("cart_items").Where(sq.Eq{"user_id": order.UserID})
		sql, args, err := clearSt.ToSql()
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return order, nil
}

func (r *Repository) lockAndValidateStock(ctx context.Context, tx pgx.Tx, items []domain.OrderItem) error {
	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	statement := r.db.QueryBuilder.
		Select("id", "name", "stock_quantity").
		From("products").
		Where(sq.Eq{"id": ids}).
		OrderBy("id").
		Suffix("for update")

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	type stockRow struct {
		name  string
		stock int32
	}
	stocks := make(map[uint64]stockRow, len(ids))
	for rows.Next() {
		var id uint64
		var row stockRow
		if err := rows.Scan(&id, &row.name, &row.stock); err != nil {
			return err
		}
		stocks[id] = row
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, item := range items {
		row, ok := stocks[item.ProductID]
		if !ok {
			return domain.ErrDataNotFound
		}
		if row.stock < item.Quantity {
			return &domain.StockError{
				ProductID:   item.ProductID,
				ProductName: row.name,
				Requested:   item.Quantity,
				Available:   row.stock,
			}
		}
	}

	return nil
}

// adjustStock moves delta units in or out of stock, mirroring the sold count.
func (r *Repository) adjustStock(ctx context.Context, tx pgx.Tx, productID uint64, delta int32) error {
	statement := r.db.QueryBuilder.
		Update("products").
		Set("stock_quantity", sq.Expr("stock_quantity + ?", delta)).
		Set("sold_count", sq.Expr("sold_count - ?", delta)).
		Where(sq.Eq{"id": productID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	result, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}

	return nil
}

// redeemVoucher increments used_count with the usage limit as an in-database
// guard, so concurrent checkouts on the last redemption cannot both succeed.
func (r *Repository) redeemVoucher(ctx context.Context, tx pgx.Tx, voucherID uint64) error {
	statement := r.db.QueryBuilder.
		Update("vouchers").
		Set("used_count", sq.Expr("used_count + 1")).
		Where(sq.Eq{"id": voucherID}).
		Where(sq.Expr("used_count < usage_limit"))

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	result, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVoucherExhausted
	}

	return nil
}

func (r *Repository) insertOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	statement := r.db.QueryBuilder.
		Insert("orders").
		Columns("code", "user_id", "customer_name", "customer_phone", "customer_email",
			"shipping_address", "shipping_province", "shipping_district", "shipping_ward",
			"order_status", "payment_method", "payment_status",
			"subtotal", "discount_amount", "shipping_fee", "total_amount",
			"voucher_id", "notes", "created_at").
		Values(order.Code, order.UserID, order.CustomerName, order.CustomerPhone, order.CustomerEmail,
			order.ShippingAddress, order.ShippingProvince, order.ShippingDistrict, order.ShippingWard,
			order.OrderStatus, order.PaymentMethod, order.PaymentStatus,
			order.Subtotal, order.DiscountAmount, order.ShippingFee, order.TotalAmount,
			order.VoucherID, order.Notes, order.CreatedAt).
		Suffix("returning id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, sql, args...).Scan(&order.ID)
	if err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		itemSt := r.db.QueryBuilder.
			Insert("order_items").
			Columns("order_id", "product_id", "product_name", "quantity", "unit_price", "total_price").
			Values(item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.TotalPrice).
			Suffix("returning id")

		sql, args, err := itemSt.ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&item.ID); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id uint64) (*domain.Order, error) {
	return r.getOrder(ctx, r.db, sq.Eq{"id": id}, false)
}

func (r *Repository) GetOrderByCode(ctx context.Context, code string) (*domain.Order, error) {
	return r.getOrder(ctx, r.db, sq.Eq{"code": code}, false)
}

var orderColumns = []string{
	"id", "code", "user_id", "customer_name", "customer_phone", "customer_email",
	"shipping_address", "shipping_province", "shipping_district", "shipping_ward",
	"order_status", "payment_method", "payment_status",
	"subtotal", "discount_amount", "shipping_fee", "total_amount",
	"voucher_id", "notes", "created_at",
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.Code,
		&order.UserID,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.CustomerEmail,
		&order.ShippingAddress,
		&order.ShippingProvince,
		&order.ShippingDistrict,
		&order.ShippingWard,
		&order.OrderStatus,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.Subtotal,
		&order.DiscountAmount,
		&order.ShippingFee,
		&order.TotalAmount,
		&order.VoucherID,
		&order.Notes,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *Repository) getOrder(ctx context.Context, q dbtx, where sq.Eq, forUpdate bool) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(where)
	if forUpdate {
		statement = statement.Suffix("for update")
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, err
	}

	items, err := r.listOrderItems(ctx, q, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *Repository) listOrderItems(ctx context.Context, q dbtx, orderID uint64) ([]domain.OrderItem, error) {
	statement := r.db.QueryBuilder.
		Select("id", "order_id", "product_id", "product_name", "quantity", "unit_price", "total_price").
		From("order_items").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *Repository) ListOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at desc")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order := domain.Order{}
		err := rows.Scan(
			&order.ID,
			&order.Code,
			&order.UserID,
			&order.CustomerName,
			&order.CustomerPhone,
			&order.CustomerEmail,
			&order.ShippingAddress,
			&order.ShippingProvince,
			&order.ShippingDistrict,
			&order.ShippingWard,
			&order.OrderStatus,
			&order.PaymentMethod,
			&order.PaymentStatus,
			&order.Subtotal,
			&order.DiscountAmount,
			&order.ShippingFee,
			&order.TotalAmount,
			&order.VoucherID,
			&order.Notes,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range list {
		items, err := r.listOrderItems(ctx, r.db, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return list, nil
}

// TransitionOrder loads the order with its lines under a row lock, lets fn
// decide the transition, then commits the status change together with its
// effects (restock, wallet credit). The lock serializes racing transitions
// on the same order, e.g. an operator cancel against a gateway confirm.
func (r *Repository) TransitionOrder(ctx context.Context, orderID uint64, fn port.TransitionOrderFn) (*domain.Order, error) {
	var order *domain.Order

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		o, err := r.getOrder(ctx, tx, sq.Eq{"id": orderID}, true)
		if err != nil {
			return err
		}

		effects, err := fn(o)
		if err != nil {
			return err
		}

		if effects != nil {
			if effects.Restock {
				for _, item := range o.Items {
					if err := r.adjustStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
						return err
					}
				}
			}
			if effects.WalletCredit != nil {
				if err := r.applyWalletEntry(ctx, tx, effects.WalletCredit); err != nil {
					return err
				}
			}
		}

		if err := r.updateOrderState(ctx, tx, o); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *Repository) updateOrderState(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	statement := r.db.QueryBuilder.
		Update("orders").
		Set("order_status", order.OrderStatus).
		Set("payment_status", order.PaymentStatus).
		Set("notes", order.Notes).
		Where(sq.Eq{"id": order.ID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, sql, args...)
	return err
}
