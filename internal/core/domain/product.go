package domain

import "github.com/govalues/decimal"

type Product struct {
	ID            uint64
	Name          string
	Price         decimal.Decimal
	SalePrice     *decimal.Decimal
	StockQuantity int32
	SoldCount     int32
}

// EffectivePrice is the sale price when one is set, the list price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}
