package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/tmdt/furnishop/internal/core/domain"
)

func (r *Repository) GetWallet(ctx context.Context, userID uint64) (*domain.Wallet, error) {
	statement := r.db.QueryBuilder.
		Select("balance").
		From("users").
		Where(sq.Eq{"id": userID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	wallet := domain.Wallet{UserID: userID}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&wallet.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &wallet, nil
}

func (r *Repository) ListWalletTransactions(ctx context.Context, userID uint64) ([]domain.WalletTransaction, error) {
	statement := r.db.QueryBuilder.
		Select("id", "user_id", "amount", "type", "description",
			"coalesce(order_code, '')", "created_at").
		From("wallet_transactions").
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

	list := make([]domain.WalletTransaction, 0)
	for rows.Next() {
		tr := domain.WalletTransaction{}
		err := rows.Scan(
			&tr.ID,
			&tr.UserID,
			&tr.Amount,
			&tr.Type,
			&tr.Description,
			&tr.OrderCode,
			&tr.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, tr)
	}

	return list, rows.Err()
}

// applyWalletEntry is the single choke point for balance changes: it moves
// the balance by the entry's signed amount and appends the ledger row in the
// caller's transaction. The two writes cannot commit independently. A debit
// that would take the balance negative fails with ErrInsufficientBalance.
func (r *Repository) applyWalletEntry(ctx context.Context, tx pgx.Tx, entry *domain.WalletTransaction) error {
	statement := r.db.QueryBuilder.
		Update("users").
		Set("balance", sq.Expr("balance + ?", entry.Amount)).
		Where(sq.Eq{"id": entry.UserID}).
		Where(sq.Expr("balance + ? >= 0", entry.Amount))

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	result, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrInsufficientBalance
	}

	var orderCode any
	if entry.OrderCode != "" {
		orderCode = entry.OrderCode
	}

	insertSt := r.db.QueryBuilder.
		Insert("wallet_transactions").
		Columns("user_id", "amount", "type", "description", "order_code").
		Values(entry.UserID, entry.Amount, entry.Type, entry.Description, orderCode).
		Suffix("returning id, created_at")

	sql, args, err = insertSt.ToSql()
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.CreatedAt)
}
