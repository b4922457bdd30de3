package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrCouponNotFound is returned when no coupon exists for a product name.
var ErrCouponNotFound = errors.New("coupon not found")

type Coupon struct {
	ID          int64           `json:"id"`
	ProductName string          `json:"product_name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}
