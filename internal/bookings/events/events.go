// Package events announces committed booking transitions on Kafka.
package events

import (
	"context"
	"sync"
	"time"

	"parking/pkg/kafka"
	"parking/pkg/logger"
	"parking/pkg/middleware"
	"parking/pkg/model"
)

const (
	BookingCreated   = "booking.created"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
	BookingDeleted   = "booking.deleted"

	schemaVersion  = "1"
	source         = "parking"
	publishTimeout = 5 * time.Second
	queueSize      = 256
)

// Publisher is best-effort: Publish never blocks on the broker and failures
// are logged, never reported to the caller. Close flushes queued events.
type Publisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking)
	Close()
}

type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaPublisher struct {
	producer MessagePublisher
	log      *logger.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan kafka.Message
	done   chan struct{}
}

func NewKafkaPublisher(producer MessagePublisher, log *logger.Logger) Publisher {
	return newKafkaPublisher(producer, log, queueSize)
}

func newKafkaPublisher(producer MessagePublisher, log *logger.Logger, size int) *kafkaPublisher {
	p := &kafkaPublisher{
		producer: producer,
		log:      log,
		queue:    make(chan kafka.Message, size),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish builds the message on the caller's goroutine, where the request id
// is still available, and hands it to the sender. A full queue drops the event.
func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) {
	msg, err := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(booking).
		WithTimestamp(occurredAt(eventType, booking)).
		WithEventType(eventType).
		WithCorrelationID(middleware.RequestID(ctx)).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		Build()
	if err != nil {
		p.log.Error("Failed to build booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.log.Warn("Booking event dropped: publisher closed",
			"event_type", eventType,
			"booking_id", booking.ID,
		)
		return
	}

	select {
	case p.queue <- msg:
	default:
		p.log.Warn("Booking event dropped: queue full",
			"event_type", eventType,
			"booking_id", booking.ID,
		)
	}
}

func (p *kafkaPublisher) run() {
	defer close(p.done)

	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := p.producer.Publish(ctx, msg); err != nil {
			p.log.Warn("Booking event not published",
				"event_type", msg.GetEventType(),
				"booking_id", msg.Key,
				"error", err,
			)
		}
		cancel()
	}
}

// Close stops accepting events and waits until the queue is drained.
func (p *kafkaPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.done
}

// occurredAt is the transition time. A delete does not touch UpdatedAt, so it
// is stamped when published.
func occurredAt(eventType string, booking *model.Booking) time.Time {
	if eventType == BookingDeleted || booking.UpdatedAt.IsZero() {
		return time.Now()
	}
	return booking.UpdatedAt
}

type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, *model.Booking) {}

func (noopPublisher) Close() {}
