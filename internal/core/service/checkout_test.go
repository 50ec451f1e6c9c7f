package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmdt/furnishop/internal/core/domain"
	"github.com/tmdt/furnishop/internal/core/port"
	"github.com/tmdt/furnishop/internal/core/port/mock"
	"github.com/tmdt/furnishop/internal/core/service"
	"go.uber.org/zap"
)

func newCheckoutService(t *testing.T, mockCtrl *gomock.Controller,
	prepare prepareMocks) (*service.Service, *mock.MockRepository) {
	t.Helper()

	logger, _ := zap.NewProduction()

	repo := mock.NewMockRepository(mockCtrl)
	ts := mock.NewMockTokenService(mockCtrl)
	gateway := mock.NewMockPaymentGateway(mockCtrl)
	notifier := mock.NewMockNotifier(mockCtrl)
	// Confirmation is fired from a goroutine the test does not wait on.
	notifier.EXPECT().SendOrderConfirmation(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).AnyTimes()

	if prepare != nil {
		prepare(repo, gateway)
	}

	s, err := service.NewService(repo, ts, gateway, notifier,
		service.FlatShippingFee(decimal.MustParse("30")), logger)
	require.NoError(t, err)

	return s, repo
}

func TestService_Checkout(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	cart := []domain.CartItem{
		{ID: 1, UserID: 1, ProductID: 10, ProductName: "Oak table", Quantity: 2, UnitPrice: decimal.MustParse("100")},
		{ID: 2, UserID: 1, ProductID: 11, ProductName: "Oak chair", Quantity: 1, UnitPrice: decimal.MustParse("100")},
	}
	table := domain.Product{ID: 10, Name: "Oak table", Price: decimal.MustParse("100"), StockQuantity: 5}
	chair := domain.Product{ID: 11, Name: "Oak chair", Price: decimal.MustParse("100"), StockQuantity: 5}

	voucher := domain.Voucher{
		ID:            7,
		Code:          "SAVE10",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: decimal.MustParse("10"),
		UsageLimit:    100,
		UsedCount:     5,
		StartDate:     time.Now().Add(-time.Hour),
		EndDate:       time.Now().Add(time.Hour),
		IsActive:      true,
	}

	t.Run("voucher checkout totals", func(t *testing.T) {
		var placed *domain.Order
		s, _ := newCheckoutService(t, mockCtrl, func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway) {
			repo.EXPECT().ListCartItems(gomock.Any(), uint64(1)).Return(cart, nil)
			repo.EXPECT().GetProduct(gomock.Any(), uint64(10)).Return(&table, nil)
			repo.EXPECT().GetProduct(gomock.Any(), uint64(11)).Return(&chair, nil)
			repo.EXPECT().GetVoucherByCode(gomock.Any(), "SAVE10").Return(&voucher, nil)
			repo.EXPECT().PlaceOrder(gomock.Any(), gomock.Any(), gomock.Nil()).
				DoAndReturn(func(_ context.Context, o *domain.Order, _ *domain.WalletTransaction) (*domain.Order, error) {
					placed = o
					return o, nil
				})
		})

		order, err := s.Checkout(context.Background(), &port.CheckoutInput{
			UserID:        1,
			CustomerEmail: "buyer@example.com",
			PaymentMethod: domain.PaymentMethodCOD,
			VoucherCode:   "SAVE10",
		})
		require.NoError(t, err)
		require.NotNil(t, placed)

		assert.Equal(t, decimal.MustParse("300"), order.Subtotal)
		assert.Equal(t, decimal.MustParse("30"), order.DiscountAmount)
		assert.Equal(t, decimal.MustParse("30"), order.ShippingFee)
		assert.Equal(t, decimal.MustParse("300"), order.TotalAmount)
		assert.Equal(t, domain.OrderStatusPending, order.OrderStatus)
		assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
		require.NotNil(t, order.VoucherID)
		assert.Equal(t, voucher.ID, *order.VoucherID)
		assert.Len(t, order.Items, 2)
		assert.Equal(t, decimal.MustParse("200"), order.Items[0].TotalPrice)
	})

	t.Run("empty cart", func(t *testing.T) {
		s, _ := newCheckoutService(t, mockCtrl, func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway) {
			repo.EXPECT().ListCartItems(gomock.Any(), uint64(1)).Return(nil, nil)
		})

		_, err := s.Checkout(context.Background(), &port.CheckoutInput{
			UserID:        1,
			PaymentMethod: domain.PaymentMethodCOD,
		})
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
	})

	t.Run("insufficient stock fails before any write", func(t *testing.T) {
		scarce := domain.Product{ID: 10, Name: "Oak table", Price: decimal.MustParse("100"), StockQuantity: 1}
		s, _ := newCheckoutService(t, mockCtrl, func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway) {
			repo.EXPECT().ListCartItems(gomock.Any(), uint64(1)).Return(cart, nil)
			repo.EXPECT().GetProduct(gomock.Any(), uint64(10)).Return(&scarce, nil)
		})

		_, err := s.Checkout(context.Background(), &port.CheckoutInput{
			UserID:        1,
			PaymentMethod: domain.PaymentMethodCOD,
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		var stockErr *domain.StockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Oak table", stockErr.ProductName)
		assert.Equal(t, int32(2), stockErr.Requested)
		assert.Equal(t, int32(1), stockErr.Available)
	})

	t.Run("wallet payment debits the total in the same commit", func(t *testing.T) {
		var debit *domain.WalletTransaction
		s, _ := newCheckoutService(t, mockCtrl, func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway) {
			repo.EXPECT().ListCartItems(gomock.Any(), uint64(1)).Return(cart, nil)
			repo.EXPECT().GetProduct(gomock.Any(), uint64(10)).Return(&table, nil)
			repo.EXPECT().GetProduct(gomock.Any(), uint64(11)).Return(&chair, nil)
			repo.EXPECT().PlaceOrder(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, o *domain.Order, d *domain.WalletTransaction) (*domain.Order, error) {
					debit = d
					return o, nil
				})
		})

		order, err := s.Checkout(context.Background(), &port.CheckoutInput{
			UserID:        1,
			PaymentMethod: domain.PaymentMethodWallet,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.OrderStatusConfirmed, order.OrderStatus)
		assert.Equal(t, domain.PaymentStatusSuccess, order.PaymentStatus)

		require.NotNil(t, debit)
		assert.Equal(t, domain.TransactionTypePayment, debit.Type)
		assert.Equal(t, order.TotalAmount.Neg(), debit.Amount)
		assert.Equal(t, order.Code, debit.OrderCode)
	})

	t.Run("wallet balance shortfall aborts the order", func(t *testing.T) {
		s, _ := newCheckoutService(t, mockCtrl, func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway) {
			repo.EXPECT().ListCartItems(gomock.Any(), uint64(1)).Return(cart, nil)
			repo.EXPECT().GetProduct(gomock.Any(), uint64(10)).Return(&table, nil)
			repo.EXPECT().GetProduct(gomock.Any(), uint64(11)).Return(&chair, nil)
			repo.EXPECT().PlaceOrder(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, domain.ErrInsufficientBalance)
		})

		_, err := s.Checkout(context.Background(), &port.CheckoutInput{
			UserID:        1,
			PaymentMethod: domain.PaymentMethodWallet,
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	})

	t.Run("invalid voucher fails the checkout", func(t *testing.T) {
		inactive := voucher
		inactive.IsActive = false
		s, _ := newCheckoutService(t, mockCtrl, func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway) {
			repo.EXPECT().ListCartItems(gomock.Any(), uint64(1)).Return(cart, nil)
			repo.EXPECT().GetProduct(gomock.Any(), uint64(10)).Return(&table, nil)
			repo.EXPECT().GetProduct(gomock.Any(), uint64(11)).Return(&chair, nil)
			repo.EXPECT().GetVoucherByCode(gomock.Any(), "SAVE10").Return(&inactive, nil)
		})

		_, err := s.Checkout(context.Background(), &port.CheckoutInput{
			UserID:        1,
			PaymentMethod: domain.PaymentMethodCOD,
			VoucherCode:   "SAVE10",
		})
		assert.ErrorIs(t, err, domain.ErrVoucherNotActive)
	})
}
