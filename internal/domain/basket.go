package domain

import "github.com/shopspring/decimal"

type CartItem struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// NetPrice is the unit price after discount, never below zero.
func (i CartItem) NetPrice() decimal.Decimal {
	net := i.Price.Sub(i.DiscountAmount)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// LineTotal is quantity times NetPrice.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.NetPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ShoppingCart is a user's basket. An empty Items slice is a valid, empty basket
// and is not the same thing as a basket that does not exist.
type ShoppingCart struct {
	UserName string     `json:"user_name"`
	Items    []CartItem `json:"items"`
}

func NewShoppingCart(userName string) *ShoppingCart {
	return &ShoppingCart{
		UserName: userName,
		Items:    []CartItem{},
	}
}

// Clone returns a deep copy so callers never share the Items backing array.
func (c *ShoppingCart) Clone() *ShoppingCart {
	if c == nil {
		return nil
	}
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return &ShoppingCart{UserName: c.UserName, Items: items}
}

func (c *ShoppingCart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c *ShoppingCart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
