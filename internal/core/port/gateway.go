package port

import (
	"context"

	"github.com/govalues/decimal"
	"github.com/tmdt/furnishop/internal/core/domain"
)

type GatewayRequest struct {
	RequestID string
	OrderRef  string
	OrderInfo string
	Amount    decimal.Decimal
	Purpose   domain.PaymentPurpose
}

type GatewayResponse struct {
	ResultCode int
	PayURL     string
	TransID    string
	Message    string
}

//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock
type PaymentGateway interface {
	// CreatePayment submits a signed capture request. A nil error with a
	// non-zero ResultCode never happens: declines come back as
	// domain.ErrGatewayDeclined with the gateway message attached.
	CreatePayment(ctx context.Context, req *GatewayRequest) (*GatewayResponse, error)
}
