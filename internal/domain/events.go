package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CorrelationHeader carries CheckoutEvent.CorrelationID on the bus message.
const CorrelationHeader = "correlation-id"

// CheckoutEvent is published once per checkout call. CorrelationID is the
// idempotency key consumers use to drop redeliveries.
type CheckoutEvent struct {
	CorrelationID string          `json:"correlation_id"`
	UserName      string          `json:"user_name"`
	Items         []CartItem      `json:"items"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewCheckoutEvent(correlationID string, cart *ShoppingCart, now time.Time) CheckoutEvent {
	snapshot := cart.Clone()
	return CheckoutEvent{
		CorrelationID: correlationID,
		UserName:      snapshot.UserName,
		Items:         snapshot.Items,
		TotalPrice:    snapshot.TotalPrice(),
		CreatedAt:     now.UTC(),
	}
}
