package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/tmdt/furnishop/internal/core/domain"
	"github.com/tmdt/furnishop/internal/core/port"
	"go.uber.org/zap"
)

func (s *Service) GetWallet(ctx context.Context, userID uint64) (*domain.Wallet, error) {
	return s.repo.GetWallet(ctx, userID)
}

func (s *Service) ListWalletTransactions(ctx context.Context, userID uint64) ([]domain.WalletTransaction, error) {
	return s.repo.ListWalletTransactions(ctx, userID)
}

func newTopUpRef(userID uint64) string {
	return fmt.Sprintf("TOP%d-%d%s", userID, time.Now().UnixMilli(),
		strings.ToUpper(uuid.NewString()[:4]))
}

// TopUpWallet creates a gateway payment whose settlement will credit the
// wallet. The top-up purpose is an explicit field on the payment record; the
// reconciliation engine never inspects the reference string for it.
func (s *Service) TopUpWallet(ctx context.Context, userID uint64, amount decimal.Decimal) (*domain.Payment, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, domain.ErrBadRequest
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ref := newTopUpRef(user.ID)
	requestID := uuid.NewString()
	resp, err := s.gateway.CreatePayment(ctx, &port.GatewayRequest{
		RequestID: requestID,
		OrderRef:  ref,
		OrderInfo: "wallet top-up " + ref,
		Amount:    amount,
		Purpose:   domain.PaymentPurposeTopUp,
	})
	if err != nil {
		s.logger.Warn("top-up payment request failed",
			zap.Uint64("user", user.ID), zap.Error(err))
		return nil, err
	}

	payment := &domain.Payment{
		UserID:    user.ID,
		Purpose:   domain.PaymentPurposeTopUp,
		OrderRef:  ref,
		RequestID: requestID,
		Amount:    amount,
		Status:    domain.PaymentStatusPending,
		PayURL:    resp.PayURL,
		Message:   resp.Message,
	}

	return s.repo.CreatePayment(ctx, payment)
}
