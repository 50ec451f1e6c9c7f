package testdb

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDBInstance wraps the disposable database the suite runs against.
// The suite is opt-in: it needs a postgres reachable through
// TEST_DATABASE_URI and wipes its tables between tests.
type TestDBInstance struct {
	DSN  string
	pool *pgxpool.Pool
}

func NewTestDBInstance() (*TestDBInstance, error) {
	dsn := os.Getenv("TEST_DATABASE_URI")
	if dsn == "" {
		return nil, errors.New("TEST_DATABASE_URI is not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}

	return &TestDBInstance{DSN: dsn, pool: pool}, nil
}

// Reset empties every table the suite writes to, keeping the schema.
func (t *TestDBInstance) Reset(ctx context.Context) error {
	_, err := t.pool.Exec(ctx,
		`truncate table payments, wallet_transactions, order_items, orders,
		 cart_items, vouchers, products, users restart identity cascade`)
	return err
}

func (t *TestDBInstance) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := t.pool.Exec(ctx, sql, args...)
	return err
}

// Count runs a query returning a single integer, for state assertions.
func (t *TestDBInstance) Count(ctx context.Context, sql string, args ...any) (int, error) {
	var n int
	err := t.pool.QueryRow(ctx, sql, args...).Scan(&n)
	return n, err
}

func (t *TestDBInstance) Down() {
	if t.pool != nil {
		t.pool.Close()
	}
}
