// Package metrics exposes the service's Prometheus collectors. A nil *Metrics
// is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "parking"

type Metrics struct {
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	bookingTransitions *prometheus.CounterVec
	bookingConflicts   prometheus.Counter
	bookingRevenue     prometheus.Counter
	penaltyAmount      prometheus.Counter

	eventsPublished *prometheus.CounterVec
}

// New registers the collectors on the default registry.
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "HTTP requests by method, route and status code.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		bookingTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "booking_transitions_total",
			Help:        "Committed booking lifecycle transitions.",
			ConstLabels: labels,
		}, []string{"transition"}),

		bookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "slot_booking_conflicts_total",
			Help:        "Booking attempts rejected because the slot was already occupied.",
			ConstLabels: labels,
		}),

		bookingRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "booking_amount_total",
			Help:        "Sum of total amounts of completed bookings.",
			ConstLabels: labels,
		}),

		penaltyAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "penalty_amount_total",
			Help:        "Sum of penalties charged on completion.",
			ConstLabels: labels,
		}),

		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "booking_events_published_total",
			Help:        "Booking events handed to the broker, by type and result.",
			ConstLabels: labels,
		}, []string{"event_type", "result"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpRequestDuration,
		m.bookingTransitions,
		m.bookingConflicts,
		m.bookingRevenue,
		m.penaltyAmount,
		m.eventsPublished,
	)

	return m
}

func (m *Metrics) BookingTransition(transition string) {
	if m == nil {
		return
	}
	m.bookingTransitions.WithLabelValues(transition).Inc()
}

func (m *Metrics) BookingConflict() {
	if m == nil {
		return
	}
	m.bookingConflicts.Inc()
}

// BookingCompleted records the amounts billed when a booking completes.
func (m *Metrics) BookingCompleted(totalAmount, penaltyAmount float64) {
	if m == nil {
		return
	}
	if totalAmount > 0 {
		m.bookingRevenue.Add(totalAmount)
	}
	if penaltyAmount > 0 {
		m.penaltyAmount.Add(penaltyAmount)
	}
}

func (m *Metrics) EventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.eventsPublished.WithLabelValues(eventType, result).Inc()
}
