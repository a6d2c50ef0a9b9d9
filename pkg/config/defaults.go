package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017/?replicaSet=rs0"
	DefaultMongoDatabaseName = "parking"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPageSize    = 10
	DefaultMaxPageSize = 100

	DefaultHourlyRate    = 10.0
	DefaultPenaltyAmount = 50.0
	DefaultTimeZone      = "Local"

	// Booking creations allowed per user per window. Zero disables the limit.
	DefaultBookingRateLimit  = 20
	DefaultBookingRateWindow = time.Minute

	DefaultKafkaEnabled          = false
	DefaultBookingEventsTopic    = "parking.booking-events"
	DefaultBookingEventsDLQTopic = "dlq-parking-bookings"

	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"
)
