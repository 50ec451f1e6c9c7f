package service

import (
	"github.com/govalues/decimal"
	"github.com/tmdt/furnishop/internal/core/port"
	"go.uber.org/zap"
)

// ShippingFeeFunc prices delivery for a destination province. The default is
// a flat fee; the hook exists so a carrier integration can replace it without
// touching checkout.
type ShippingFeeFunc func(province string) decimal.Decimal

type Service struct {
	repo         port.Repository
	tokenService port.TokenService
	gateway      port.PaymentGateway
	notifier     port.Notifier
	shippingFee  ShippingFeeFunc
	logger       *zap.Logger
}

func NewService(repo port.Repository, tokenService port.TokenService,
	gateway port.PaymentGateway, notifier port.Notifier,
	shippingFee ShippingFeeFunc, logger *zap.Logger) (*Service, error) {
	if shippingFee == nil {
		shippingFee = FlatShippingFee(decimal.MustParse("30000"))
	}
	return &Service{
		repo:         repo,
		tokenService: tokenService,
		gateway:      gateway,
		notifier:     notifier,
		shippingFee:  shippingFee,
		logger:       logger,
	}, nil
}

// FlatShippingFee charges the same fee for every province.
func FlatShippingFee(fee decimal.Decimal) ShippingFeeFunc {
	return func(string) decimal.Decimal { return fee }
}
