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
	"github.com/tmdt/furnishop/internal/core/port/mock"
	"github.com/tmdt/furnishop/internal/core/service"
	"go.uber.org/zap"
)

// transitionOn wires TransitionOrder to run the callback against the given
// order, the way the repository does under its row lock, and hands the
// resulting effects to the test.
func transitionOn(repo *mock.MockRepository, orderID uint64, order *domain.Order, effects **port.OrderEffects) {
	repo.EXPECT().TransitionOrder(gomock.Any(), orderID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint64, fn port.TransitionOrderFn) (*domain.Order, error) {
			eff, err := fn(order)
			if err != nil {
				return nil, err
			}
			if effects != nil {
				*effects = eff
			}
			return order, nil
		})
}

func newCancelService(t *testing.T, mockCtrl *gomock.Controller) (*service.Service, *mock.MockRepository) {
	t.Helper()

	logger, _ := zap.NewProduction()

	repo := mock.NewMockRepository(mockCtrl)
	ts := mock.NewMockTokenService(mockCtrl)
	gateway := mock.NewMockPaymentGateway(mockCtrl)
	notifier := mock.NewMockNotifier(mockCtrl)

	s, err := service.NewService(repo, ts, gateway, notifier, nil, logger)
	require.NoError(t, err)

	return s, repo
}

func TestService_RequestCancel(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("pending order moves to cancel requested", func(t *testing.T) {
		s, repo := newCancelService(t, mockCtrl)
		order := &domain.Order{ID: 5, Code: "ORD1", UserID: 1, OrderStatus: domain.OrderStatusPending}
		transitionOn(repo, 5, order, nil)

		result, err := s.RequestCancel(context.Background(), 5, 1, "changed my mind")
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelRequested, result.OrderStatus)
		assert.Equal(t, "[cancel requested]: changed my mind", result.Notes)
	})

	t.Run("someone else's order", func(t *testing.T) {
		s, repo := newCancelService(t, mockCtrl)
		order := &domain.Order{ID: 5, Code: "ORD1", UserID: 2, OrderStatus: domain.OrderStatusPending}
		transitionOn(repo, 5, order, nil)

		_, err := s.RequestCancel(context.Background(), 5, 1, "nope")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("shipped order cannot request cancel", func(t *testing.T) {
		s, repo := newCancelService(t, mockCtrl)
		order := &domain.Order{ID: 5, Code: "ORD1", UserID: 1, OrderStatus: domain.OrderStatusShipping}
		transitionOn(repo, 5, order, nil)

		_, err := s.RequestCancel(context.Background(), 5, 1, "too late")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestService_ApproveCancel(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("paid gateway order restocks and refunds", func(t *testing.T) {
		s, repo := newCancelService(t, mockCtrl)
		order := &domain.Order{
			ID:            5,
			Code:          "ORD1",
			UserID:        1,
			OrderStatus:   domain.OrderStatusCancelRequested,
			PaymentMethod: domain.PaymentMethodMoMo,
			PaymentStatus: domain.PaymentStatusSuccess,
			TotalAmount:   decimal.MustParse("300"),
		}
		var effects *port.OrderEffects
		transitionOn(repo, 5, order, &effects)

		result, err := s.ApproveCancel(context.Background(), 5)
		require.NoError(t, err)

		assert.Equal(t, domain.OrderStatusCancelled, result.OrderStatus)
		assert.Equal(t, domain.PaymentStatusRefunded, result.PaymentStatus)

		require.NotNil(t, effects)
		assert.True(t, effects.Restock)
		require.NotNil(t, effects.WalletCredit)
		assert.Equal(t, domain.TransactionTypeRefund, effects.WalletCredit.Type)
		assert.Equal(t, decimal.MustParse("300"), effects.WalletCredit.Amount)
		assert.Equal(t, "ORD1", effects.WalletCredit.OrderCode)
	})

	t.Run("paid cash order settles without moving funds", func(t *testing.T) {
		s, repo := newCancelService(t, mockCtrl)
		order := &domain.Order{
			ID:            5,
			Code:          "ORD1",
			UserID:        1,
			OrderStatus:   domain.OrderStatusCancelRequested,
			PaymentMethod: domain.PaymentMethodCOD,
			PaymentStatus: domain.PaymentStatusSuccess,
			TotalAmount:   decimal.MustParse("300"),
		}
		var effects *port.OrderEffects
		transitionOn(repo, 5, order, &effects)

		result, err := s.ApproveCancel(context.Background(), 5)
		require.NoError(t, err)

		assert.Equal(t, domain.PaymentStatusSettled, result.PaymentStatus)
		require.NotNil(t, effects)
		assert.True(t, effects.Restock)
		assert.Nil(t, effects.WalletCredit)
	})

	t.Run("unpaid order restocks only", func(t *testing.T) {
		s, repo := newCancelService(t, mockCtrl)
		order := &domain.Order{
			ID:            5,
			Code:          "ORD1",
			UserID:        1,
			OrderStatus:   domain.OrderStatusCancelRequested,
			PaymentMethod: domain.PaymentMethodMoMo,
			PaymentStatus: domain.PaymentStatusPending,
		}
		var effects *port.OrderEffects
		transitionOn(repo, 5, order, &effects)

		result, err := s.ApproveCancel(context.Background(), 5)
		require.NoError(t, err)

		assert.Equal(t, domain.PaymentStatusPending, result.PaymentStatus)
		require.NotNil(t, effects)
		assert.True(t, effects.Restock)
		assert.Nil(t, effects.WalletCredit)
	})

	t.Run("delivered order cannot be cancelled", func(t *testing.T) {
		s, repo := newCancelService(t, mockCtrl)
		order := &domain.Order{ID: 5, Code: "ORD1", UserID: 1, OrderStatus: domain.OrderStatusDelivered}
		transitionOn(repo, 5, order, nil)

		_, err := s.ApproveCancel(context.Background(), 5)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		var trErr *domain.TransitionError
		require.ErrorAs(t, err, &trErr)
		assert.Equal(t, domain.OrderStatusDelivered, trErr.From)
		assert.Equal(t, domain.OrderStatusCancelled, trErr.To)
	})
}

func TestService_RejectCancel(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("returns the order to confirmed", func(t *testing.T) {
		s, repo := newCancelService(t, mockCtrl)
		order := &domain.Order{ID: 5, Code: "ORD1", UserID: 1, OrderStatus: domain.OrderStatusCancelRequested}
		transitionOn(repo, 5, order, nil)

		result, err := s.RejectCancel(context.Background(), 5, "already packed")
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, result.OrderStatus)
		assert.Equal(t, "[cancel rejected]: already packed", result.Notes)
	})

	t.Run("only cancel requested orders", func(t *testing.T) {
		s, repo := newCancelService(t, mockCtrl)
		order := &domain.Order{ID: 5, Code: "ORD1", UserID: 1, OrderStatus: domain.OrderStatusPending}
		transitionOn(repo, 5, order, nil)

		_, err := s.RejectCancel(context.Background(), 5, "nothing to reject")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestService_UpdateOrderStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("delivery settles cash payment", func(t *testing.T) {
		s, repo := newCancelService(t, mockCtrl)
		order := &domain.Order{
			ID:            5,
			Code:          "ORD1",
			OrderStatus:   domain.OrderStatusShipping,
			PaymentMethod: domain.PaymentMethodCOD,
			PaymentStatus: domain.PaymentStatusPending,
		}
		transitionOn(repo, 5, order, nil)

		result, err := s.UpdateOrderStatus(context.Background(), 5, domain.OrderStatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusDelivered, result.OrderStatus)
		assert.Equal(t, domain.PaymentStatusSuccess, result.PaymentStatus)
	})

	t.Run("cancel status goes through the cancellation flow", func(t *testing.T) {
		s, repo := newCancelService(t, mockCtrl)
		order := &domain.Order{
			ID:            5,
			Code:          "ORD1",
			OrderStatus:   domain.OrderStatusCancelRequested,
			PaymentMethod: domain.PaymentMethodCOD,
			PaymentStatus: domain.PaymentStatusPending,
		}
		var effects *port.OrderEffects
		transitionOn(repo, 5, order, &effects)

		result, err := s.UpdateOrderStatus(context.Background(), 5, domain.OrderStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, result.OrderStatus)
		require.NotNil(t, effects)
		assert.True(t, effects.Restock)
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		s, repo := newCancelService(t, mockCtrl)
		order := &domain.Order{ID: 5, Code: "ORD1", OrderStatus: domain.OrderStatusPending}
		transitionOn(repo, 5, order, nil)

		_, err := s.UpdateOrderStatus(context.Background(), 5, domain.OrderStatusShipping)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}
