package port

import (
	"context"

	"github.com/tmdt/furnishop/internal/core/domain"
)

// TransitionOrderFn decides an order state transition under a per-order row
// lock. It may mutate the order's statuses and notes; the returned effects
// are applied in the same database transaction.
type TransitionOrderFn func(o *domain.Order) (*OrderEffects, error)

// OrderEffects are side effects committed together with an order transition.
type OrderEffects struct {
	// Restock returns every order line's quantity to product stock.
	Restock bool
	// WalletCredit appends a ledger entry and moves the balance accordingly.
	WalletCredit *domain.WalletTransaction
}

// ReconcileFn applies one gateway callback to its payment record and, for
// order-purpose payments, the linked order. Both rows are locked for the
// duration of the transaction. Returning domain.ErrDuplicateCallback rolls
// back and reports success to the caller.
type ReconcileFn func(p *domain.Payment, o *domain.Order) (*ReconcileEffects, error)

type ReconcileEffects struct {
	WalletCredit *domain.WalletTransaction
}

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// User
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByLogin(ctx context.Context, login string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uint64) (*domain.User, error)

	// Catalog
	GetProduct(ctx context.Context, id uint64) (*domain.Product, error)

	// Cart
	ListCartItems(ctx context.Context, userID uint64) ([]domain.CartItem, error)
	UpsertCartItem(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error)
	RemoveCartItem(ctx context.Context, userID uint64, itemID uint64) error

	// Voucher
	GetVoucherByCode(ctx context.Context, code string) (*domain.Voucher, error)

	// Orders. PlaceOrder commits the order with its lines, the guarded stock
	// decrements, the voucher usage increment and the optional wallet debit
	// (with its ledger row) as one transaction, then clears the cart.
	PlaceOrder(ctx context.Context, order *domain.Order, debit *domain.WalletTransaction) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id uint64) (*domain.Order, error)
	GetOrderByCode(ctx context.Context, code string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error)
	TransitionOrder(ctx context.Context, orderID uint64, fn TransitionOrderFn) (*domain.Order, error)

	// Wallet
	GetWallet(ctx context.Context, userID uint64) (*domain.Wallet, error)
	ListWalletTransactions(ctx context.Context, userID uint64) ([]domain.WalletTransaction, error)

	// Payments
	CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetPaymentByRequestID(ctx context.Context, requestID string) (*domain.Payment, error)
	ReconcilePayment(ctx context.Context, requestID string, fn ReconcileFn) error
}
