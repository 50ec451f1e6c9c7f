package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit TransactionType = "DEPOSIT"
	TransactionTypePayment TransactionType = "PAYMENT"
	TransactionTypeRefund  TransactionType = "REFUND"
)

// Wallet is the stored-value balance embedded in the user record.
// The balance only ever changes together with a WalletTransaction row,
// inside the same database transaction.
type Wallet struct {
	UserID  uint64
	Balance decimal.Decimal
}

// WalletTransaction is an append-only ledger entry. Amount is signed:
// negative for payments, positive for deposits and refunds.
type WalletTransaction struct {
	ID          uint64
	UserID      uint64
	Amount      decimal.Decimal
	Type        TransactionType
	Description string
	OrderCode   string
	CreatedAt   time.Time
}
