package basket

import (
	"context"
	"fmt"

	"github.com/joao-fontenele/basketflow/internal/domain"
)

// EventPublisher delivers checkout events at least once. It does not
// de-duplicate; consumers use the correlation id for that.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.CheckoutEvent) error
}

type eventProducer interface {
	Publish(ctx context.Context, key string, event any, headers map[string]string) error
}

type KafkaPublisher struct {
	producer eventProducer
}

// NewKafkaPublisher wraps a messaging.Producer bound to the checkout topic.
func NewKafkaPublisher(producer eventProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.CheckoutEvent) error {
	headers := map[string]string{domain.CorrelationHeader: event.CorrelationID}
	if err := p.producer.Publish(ctx, event.UserName, event, headers); err != nil {
		return fmt.Errorf("%w: checkout %s: %w", ErrPublishFailed, event.CorrelationID, err)
	}
	return nil
}
