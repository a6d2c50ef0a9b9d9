package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"parking/pkg/kafka"
	"parking/pkg/logger"
	"parking/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func TestLoggingProducerMiddleware_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Format: logger.JSON, Output: &buf})

	mw := LoggingProducerMiddleware(log)
	msg, _ := kafka.NewMessage().WithKey("b1").WithValue("x").WithEventType("booking.created").Build()

	err := mw(context.Background(), msg, func(context.Context, kafka.Message) error {
		return errors.New("broker down")
	})
	if err == nil {
		t.Fatal("middleware must return the downstream error")
	}
	if !strings.Contains(buf.String(), "broker down") || !strings.Contains(buf.String(), "booking.created") {
		t.Errorf("log output missing error details: %s", buf.String())
	}
}

func TestMetricsProducerMiddleware_PassesThrough(t *testing.T) {
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())
	mw := MetricsProducerMiddleware(m)

	called := false
	err := mw(context.Background(), kafka.Message{Key: "b1"}, func(context.Context, kafka.Message) error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Fatalf("next not called or error returned: %v", err)
	}

	mw = MetricsProducerMiddleware(nil)
	if err := mw(context.Background(), kafka.Message{}, func(context.Context, kafka.Message) error { return nil }); err != nil {
		t.Fatalf("nil metrics should be a no-op: %v", err)
	}
}
