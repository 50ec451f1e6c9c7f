package domain

import (
	"time"

	"github.com/govalues/decimal"
)

// PaymentPurpose is an explicit discriminator between paying an order and
// topping up a wallet. The purpose is carried on the payment record, never
// encoded into the external order reference.
type PaymentPurpose string

const (
	PaymentPurposeOrder PaymentPurpose = "ORDER"
	PaymentPurposeTopUp PaymentPurpose = "WALLET_TOPUP"
)

// Payment records one outbound gateway request and, later, the callback that
// settled it. CallbackData keeps the raw webhook payload for audit.
type Payment struct {
	ID            uint64
	OrderID       *uint64
	UserID        uint64
	Purpose       PaymentPurpose
	OrderRef      string
	RequestID     string
	TransactionID string
	Amount        decimal.Decimal
	Status        PaymentStatus
	PayURL        string
	Message       string
	CallbackData  string
	CreatedAt     time.Time
}

// GatewayCallback is the asynchronous IPN payload from the payment gateway.
// Delivery is at-least-once and unordered.
type GatewayCallback struct {
	OrderRef   string
	RequestID  string
	ResultCode int
	TransID    string
	Amount     decimal.Decimal
	Raw        string
}
