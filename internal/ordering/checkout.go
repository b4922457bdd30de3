package ordering

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/joao-fontenele/basketflow/internal/domain"
	"github.com/joao-fontenele/basketflow/internal/messaging"
)

type orderRecorder interface {
	Record(ctx context.Context, order *domain.Order) (bool, error)
}

// CheckoutHandler turns checkout events into pending orders. Redelivered
// events are recognised by their correlation id and skipped.
type CheckoutHandler struct {
	repo   orderRecorder
	logger *slog.Logger
}

func NewCheckoutHandler(repo orderRecorder, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		repo:   repo,
		logger: logger,
	}
}

// Handle drops undecodable events after logging them; returning an error for
// them would stall the partition forever.
func (h *CheckoutHandler) Handle(ctx context.Context, d messaging.Delivery) error {
	var event domain.CheckoutEvent
	if err := json.Unmarshal(d.Payload, &event); err != nil {
		h.logger.Error("dropping malformed checkout event", "error", err, "key", d.Key)
		return nil
	}
	if event.CorrelationID == "" {
		event.CorrelationID = d.Headers[domain.CorrelationHeader]
	}
	if event.CorrelationID == "" || event.UserName == "" {
		h.logger.Error("dropping checkout event without identity", "key", d.Key)
		return nil
	}

	order := orderFromCheckout(event)
	recorded, err := h.repo.Record(ctx, order)
	if err != nil {
		return fmt.Errorf("record order for checkout %s: %w", event.CorrelationID, err)
	}
	if !recorded {
		h.logger.Info("duplicate checkout event skipped", "correlation_id", event.CorrelationID, "user_name", event.UserName)
		return nil
	}

	h.logger.Info("order recorded", "order_id", order.ID, "correlation_id", event.CorrelationID, "user_name", event.UserName, "total", order.Total.String())
	return nil
}

func orderFromCheckout(event domain.CheckoutEvent) *domain.Order {
	items := make([]domain.OrderItem, 0, len(event.Items))
	for _, item := range event.Items {
		items = append(items, domain.OrderItem{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			Price:          item.Price,
			DiscountAmount: item.DiscountAmount,
		})
	}

	return &domain.Order{
		CorrelationID: event.CorrelationID,
		UserName:      event.UserName,
		Items:         items,
		Total:         event.TotalPrice,
		Status:        domain.OrderStatusPending,
		CreatedAt:     event.CreatedAt.UTC(),
	}
}
