package domain

import "github.com/govalues/decimal"

// CartItem holds the unit price captured when the product was added to the
// cart. Checkout prices from this snapshot, not from the live catalog price.
type CartItem struct {
	ID          uint64
	UserID      uint64
	ProductID   uint64
	ProductName string
	Quantity    int32
	UnitPrice   decimal.Decimal
}

func (ci *CartItem) TotalPrice() (decimal.Decimal, error) {
	qty, err := decimal.New(int64(ci.Quantity), 0)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return ci.UnitPrice.Mul(qty)
}
