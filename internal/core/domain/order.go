package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "PENDING"
	OrderStatusConfirmed       OrderStatus = "CONFIRMED"
	OrderStatusPacking         OrderStatus = "PACKING"
	OrderStatusShipping        OrderStatus = "SHIPPING"
	OrderStatusDelivered       OrderStatus = "DELIVERED"
	OrderStatusCancelRequested OrderStatus = "CANCEL_REQUESTED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	// PaymentStatusSettled marks a cancelled cash-on-delivery order: the
	// cancellation is settled but no money ever moved.
	PaymentStatusSettled PaymentStatus = "SETTLED_NO_PAYMENT"
)

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodWallet PaymentMethod = "WALLET"
	PaymentMethodMoMo   PaymentMethod = "MOMO"
)

// orderTransitions is the full set of allowed status transitions.
// DELIVERED and CANCELLED are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:         {OrderStatusConfirmed, OrderStatusCancelRequested},
	OrderStatusConfirmed:       {OrderStatusPacking, OrderStatusCancelRequested},
	OrderStatusPacking:         {OrderStatusShipping},
	OrderStatusShipping:        {OrderStatusDelivered},
	OrderStatusCancelRequested: {OrderStatusCancelled, OrderStatusConfirmed},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID               uint64
	Code             string
	UserID           uint64
	CustomerName     string
	CustomerPhone    string
	CustomerEmail    string
	ShippingAddress  string
	ShippingProvince string
	ShippingDistrict string
	ShippingWard     string
	OrderStatus      OrderStatus
	PaymentMethod    PaymentMethod
	PaymentStatus    PaymentStatus
	Subtotal         decimal.Decimal
	DiscountAmount   decimal.Decimal
	ShippingFee      decimal.Decimal
	TotalAmount      decimal.Decimal
	VoucherID        *uint64
	Notes            string
	Items            []OrderItem
	CreatedAt        time.Time
}

// Transition moves the order to the next status, or fails with a
// TransitionError when the move is not in the transition table.
func (o *Order) Transition(next OrderStatus) error {
	if !o.OrderStatus.CanTransitionTo(next) {
		return &TransitionError{From: o.OrderStatus, To: next}
	}
	o.OrderStatus = next
	return nil
}

// OrderItem is a price snapshot taken from the cart at checkout time.
// It is never re-priced after creation.
type OrderItem struct {
	ID          uint64
	OrderID     uint64
	ProductID   uint64
	ProductName string
	Quantity    int32
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}
