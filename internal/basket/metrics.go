package basket

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type serviceMetrics struct {
	operations metric.Int64Counter
	lookups    metric.Int64Counter
}

func newServiceMetrics(meter metric.Meter) (*serviceMetrics, error) {
	operations, err := meter.Int64Counter("basket.operations",
		metric.WithDescription("Basket operations by outcome."),
	)
	if err != nil {
		return nil, err
	}

	lookups, err := meter.Int64Counter("basket.discount.lookups",
		metric.WithDescription("Discount lookups issued during enrichment."),
	)
	if err != nil {
		return nil, err
	}

	return &serviceMetrics{operations: operations, lookups: lookups}, nil
}

func (m *serviceMetrics) recordOperation(ctx context.Context, operation string, err error) {
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome(err)),
	))
}

func (m *serviceMetrics) recordLookup(ctx context.Context, result string) {
	m.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrEmptyBasket):
		return "empty_basket"
	case errors.Is(err, ErrCheckoutIncomplete):
		return "incomplete"
	case errors.Is(err, ErrCheckoutPublishFailed):
		return "publish_failed"
	case errors.Is(err, ErrEnrichmentFailed):
		return "enrichment_failed"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
