package config

const (
	EnvConfigFile = "CONFIG_FILE"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvPageSize    = "PAGE_SIZE"
	EnvMaxPageSize = "MAX_PAGE_SIZE"

	EnvDefaultHourlyRate    = "DEFAULT_HOURLY_RATE"
	EnvDefaultPenaltyAmount = "DEFAULT_PENALTY_AMOUNT"
	EnvBillingTimeZone      = "BILLING_TIMEZONE"

	EnvBookingRateLimit  = "BOOKING_RATE_LIMIT"
	EnvBookingRateWindow = "BOOKING_RATE_WINDOW"

	EnvKafkaEnabled          = "KAFKA_ENABLED"
	EnvBookingEventsTopic    = "BOOKING_EVENTS_TOPIC"
	EnvBookingEventsDLQTopic = "BOOKING_EVENTS_DLQ_TOPIC"

	EnvMetricsEnabled = "METRICS_ENABLED"
	EnvMetricsPath    = "METRICS_PATH"
)
