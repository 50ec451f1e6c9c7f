package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrExpiredToken               = errors.New("access token has expired")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrInvalidCredentials         = errors.New("invalid login or password")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrUnauthorized               = errors.New("user is unauthorized to access the resource")
	ErrForbidden                  = errors.New("user is forbidden to access the resource")

	// * Business errors.
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientStock   = errors.New("not enough stock")
	ErrInsufficientBalance = errors.New("wallet balance is not enough")
	ErrVoucherNotActive    = errors.New("voucher is not active")
	ErrVoucherExpired      = errors.New("voucher is outside its validity window")
	ErrVoucherExhausted    = errors.New("voucher usage limit reached")
	ErrVoucherMinAmount    = errors.New("order subtotal is below voucher minimum")
	ErrInvalidTransition   = errors.New("order status transition is not allowed")
	ErrOrderAlreadyPaid    = errors.New("order is already paid")
	ErrOrderNotPayable     = errors.New("order can no longer be paid")
	ErrGatewayDeclined     = errors.New("payment gateway declined the request")
	ErrGatewayUnavailable  = errors.New("payment gateway is unreachable")

	// ErrDuplicateCallback marks a gateway callback that was already applied.
	// It is an idempotency short-circuit, absorbed silently at the repository
	// boundary, never surfaced to the gateway.
	ErrDuplicateCallback = errors.New("gateway callback already applied")
)

// StockError names the product that failed the stock check during checkout.
type StockError struct {
	ProductID   uint64
	ProductName string
	Requested   int32
	Available   int32
}

func (e *StockError) Error() string {
	return fmt.Sprintf("product %q: requested %d, in stock %d", e.ProductName, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// TransitionError reports a rejected order status transition.
type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order transition %s -> %s is not allowed", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
