package port

import (
	"context"

	"github.com/govalues/decimal"
	"github.com/tmdt/furnishop/internal/core/domain"
)

type CheckoutInput struct {
	UserID           uint64
	CustomerName     string
	CustomerPhone    string
	CustomerEmail    string
	ShippingAddress  string
	ShippingProvince string
	ShippingDistrict string
	ShippingWard     string
	PaymentMethod    domain.PaymentMethod
	VoucherCode      string
	Notes            string
}

type Service interface {
	RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error)
	LoginUser(ctx context.Context, login string, password string) (string, error)

	GetProduct(ctx context.Context, id uint64) (*domain.Product, error)

	GetCart(ctx context.Context, userID uint64) ([]domain.CartItem, error)
	AddToCart(ctx context.Context, userID uint64, productID uint64, quantity int32) (*domain.CartItem, error)
	RemoveFromCart(ctx context.Context, userID uint64, itemID uint64) error

	Checkout(ctx context.Context, in *CheckoutInput) (*domain.Order, error)
	GetOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error)
	GetOrderByCode(ctx context.Context, code string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) (*domain.Order, error)

	RequestCancel(ctx context.Context, orderID uint64, userID uint64, reason string) (*domain.Order, error)
	ApproveCancel(ctx context.Context, orderID uint64) (*domain.Order, error)
	RejectCancel(ctx context.Context, orderID uint64, reason string) (*domain.Order, error)

	PreviewVoucher(ctx context.Context, code string, subtotal decimal.Decimal) (decimal.Decimal, error)

	GetWallet(ctx context.Context, userID uint64) (*domain.Wallet, error)
	ListWalletTransactions(ctx context.Context, userID uint64) ([]domain.WalletTransaction, error)
	TopUpWallet(ctx context.Context, userID uint64, amount decimal.Decimal) (*domain.Payment, error)

	PayOrder(ctx context.Context, orderID uint64, userID uint64) (*domain.Payment, error)
	HandleGatewayCallback(ctx context.Context, cb *domain.GatewayCallback) error
}
