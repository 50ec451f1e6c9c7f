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

func (r *Repository) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	statement := r.db.QueryBuilder.
		Insert("payments").
		Columns("order_id", "user_id", "purpose", "order_ref", "request_id",
			"transaction_id", "amount", "status", "pay_url", "message", "callback_data").
		Values(payment.OrderID, payment.UserID, payment.Purpose, payment.OrderRef, payment.RequestID,
			payment.TransactionID, payment.Amount, payment.Status, payment.PayURL, payment.Message, payment.CallbackData).
		Suffix("returning id, created_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return payment, nil
}

var paymentColumns = []string{
	"id", "order_id", "user_id", "purpose", "order_ref", "request_id",
	"coalesce(transaction_id, '')", "amount", "status", "pay_url", "message", "callback_data", "created_at",
}

func (r *Repository) GetPaymentByRequestID(ctx context.Context, requestID string) (*domain.Payment, error) {
	return r.getPayment(ctx, r.db, requestID, false)
}

func (r *Repository) getPayment(ctx context.Context, q dbtx, requestID string, forUpdate bool) (*domain.Payment, error) {
	statement := r.db.QueryBuilder.
		Select(paymentColumns...).
		From("payments").
		Where(sq.Eq{"request_id": requestID})
	if forUpdate {
		statement = statement.Suffix("for update")
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	payment := domain.Payment{}

	err = q.QueryRow(ctx, sql, args...).Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.UserID,
		&payment.Purpose,
		&payment.OrderRef,
		&payment.RequestID,
		&payment.TransactionID,
		&payment.Amount,
		&payment.Status,
		&payment.PayURL,
		&payment.Message,
		&payment.CallbackData,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &payment, nil
}

// ReconcilePayment applies one gateway callback. The payment row and, for
// order payments, the order row are locked for the transaction, so repeated
// or concurrent deliveries of the same settlement serialize and the second
// one sees terminal state. fn returning domain.ErrDuplicateCallback rolls
// back silently: the callback was already applied.
func (r *Repository) ReconcilePayment(ctx context.Context, requestID string, fn port.ReconcileFn) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		payment, err := r.getPayment(ctx, tx, requestID, true)
		if err != nil {
			return err
		}

		var order *domain.Order
		if payment.OrderID != nil {
			order, err = r.getOrder(ctx, tx, sq.Eq{"id": *payment.OrderID}, true)
			if err != nil {
				return err
			}
		}

		effects, err := fn(payment, order)
		if err != nil {
			return err
		}

		if effects != nil && effects.WalletCredit != nil {
			if err := r.applyWalletEntry(ctx, tx, effects.WalletCredit); err != nil {
				return err
			}
		}

		if err := r.updatePaymentState(ctx, tx, payment); err != nil {
			return err
		}

		if order != nil {
			if err := r.updateOrderState(ctx, tx, order); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateCallback) {
			return nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrConflictingData
		}
		return err
	}

	return nil
}

func (r *Repository) updatePaymentState(ctx context.Context, tx pgx.Tx, payment *domain.Payment) error {
	var transactionID any
	if payment.TransactionID != "" {
		transactionID = payment.TransactionID
	}

	statement := r.db.QueryBuilder.
		Update("payments").
		Set("status", payment.Status).
		Set("transaction_id", transactionID).
		Set("callback_data", payment.CallbackData).
		Where(sq.Eq{"id": payment.ID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, sql, args...)
	return err
}
