package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

type Voucher struct {
	ID                uint64
	Code              string
	Name              string
	DiscountType      DiscountType
	DiscountValue     decimal.Decimal
	MinOrderAmount    *decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	UsageLimit        int32
	UsedCount         int32
	StartDate         time.Time
	EndDate           time.Time
	IsActive          bool
}
