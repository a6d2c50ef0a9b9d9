package kafka_middleware

import (
	"context"

	"parking/pkg/kafka"
	"parking/pkg/metrics"
)

// MetricsProducerMiddleware counts publish results per event type.
func MetricsProducerMiddleware(m *metrics.Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		err := next(ctx, msg)
		m.EventPublished(msg.GetEventType(), err)
		return err
	}
}
