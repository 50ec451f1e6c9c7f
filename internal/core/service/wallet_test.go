package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmdt/furnishop/internal/core/domain"
	"github.com/tmdt/furnishop/internal/core/port"
)

func TestService_TopUpWallet(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	user := domain.User{ID: 1, Login: "test", Role: domain.RoleUser}

	t.Run("creates a pending top-up payment", func(t *testing.T) {
		s, repo, gateway := newPaymentService(t, mockCtrl)
		repo.EXPECT().GetUserByID(gomock.Any(), uint64(1)).Return(&user, nil)
		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *port.GatewayRequest) (*port.GatewayResponse, error) {
				assert.Equal(t, domain.PaymentPurposeTopUp, req.Purpose)
				assert.Equal(t, decimal.MustParse("1000"), req.Amount)
				assert.NotEmpty(t, req.RequestID)
				assert.NotEmpty(t, req.OrderRef)
				return &port.GatewayResponse{PayURL: "https://pay.example/2"}, nil
			})
		repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
				return p, nil
			})

		payment, err := s.TopUpWallet(context.Background(), 1, decimal.MustParse("1000"))
		require.NoError(t, err)

		assert.Equal(t, domain.PaymentPurposeTopUp, payment.Purpose)
		assert.Equal(t, domain.PaymentStatusPending, payment.Status)
		assert.Equal(t, "https://pay.example/2", payment.PayURL)
		assert.Nil(t, payment.OrderID)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		s, _, _ := newPaymentService(t, mockCtrl)

		_, err := s.TopUpWallet(context.Background(), 1, decimal.Zero)
		assert.ErrorIs(t, err, domain.ErrBadRequest)
	})

	t.Run("gateway failure creates no payment record", func(t *testing.T) {
		s, repo, gateway := newPaymentService(t, mockCtrl)
		repo.EXPECT().GetUserByID(gomock.Any(), uint64(1)).Return(&user, nil)
		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			Return(nil, domain.ErrGatewayUnavailable)

		_, err := s.TopUpWallet(context.Background(), 1, decimal.MustParse("1000"))
		assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
	})
}

func TestService_GetWallet(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	s, repo, _ := newPaymentService(t, mockCtrl)
	repo.EXPECT().GetWallet(gomock.Any(), uint64(1)).
		Return(&domain.Wallet{UserID: 1, Balance: decimal.MustParse("250")}, nil)

	wallet, err := s.GetWallet(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, decimal.MustParse("250"), wallet.Balance)
}
