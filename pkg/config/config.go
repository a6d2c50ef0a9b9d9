package config

import (
	"fmt"
	"os"
	"parking/pkg/client"
	"parking/pkg/logger"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port     string
	LogLevel string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// PageSize applies when a list request has no limit; MaxPageSize caps it.
	PageSize    int
	MaxPageSize int

	// Seed values for the settings singleton. Once the record exists the
	// stored values win.
	DefaultHourlyRate    float64
	DefaultPenaltyAmount float64

	// BillingTimeZone is the zone booking interval strings are interpreted in.
	BillingTimeZone string
	Location        *time.Location

	BookingRateLimit  int
	BookingRateWindow time.Duration

	KafkaEnabled          bool
	BookingEventsTopic    string
	BookingEventsDLQTopic string

	MetricsEnabled bool
	MetricsPath    string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := Defaults()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.applyFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config file %s: %v\n", path, err)
			os.Exit(1)
		}
	}
	cfg.applyEnv()

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})
	cfg.Client = client.NewClient()

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	return cfg
}

// Defaults returns a configuration populated only from the Default* constants.
func Defaults() *Config {
	return &Config{
		MongoURI:          DefaultMongoURI,
		MongoDatabaseName: DefaultMongoDatabaseName,
		MongoConnTimeout:  DefaultMongoConnTimeout,

		Port:     DefaultPort,
		LogLevel: DefaultLogLevel,

		RequestTimeout: DefaultRequestTimeout,
		MaxRequestSize: DefaultMaxRequestSize,

		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,

		PageSize:    DefaultPageSize,
		MaxPageSize: DefaultMaxPageSize,

		DefaultHourlyRate:    DefaultHourlyRate,
		DefaultPenaltyAmount: DefaultPenaltyAmount,
		BillingTimeZone:      DefaultTimeZone,

		BookingRateLimit:  DefaultBookingRateLimit,
		BookingRateWindow: DefaultBookingRateWindow,

		KafkaEnabled:          DefaultKafkaEnabled,
		BookingEventsTopic:    DefaultBookingEventsTopic,
		BookingEventsDLQTopic: DefaultBookingEventsDLQTopic,

		MetricsEnabled: DefaultMetricsEnabled,
		MetricsPath:    DefaultMetricsPath,
	}
}

func (cfg *Config) applyEnv() {
	cfg.MongoURI = getEnvStr(EnvMongoURI, cfg.MongoURI)
	cfg.MongoDatabaseName = getEnvStr(EnvMongoDatabaseName, cfg.MongoDatabaseName)
	cfg.MongoConnTimeout = getEnvDuration(EnvMongoConnTimeout, cfg.MongoConnTimeout)

	cfg.Port = getEnvStr(EnvPort, cfg.Port)
	cfg.LogLevel = getEnvStr(EnvLogLevel, cfg.LogLevel)

	cfg.RequestTimeout = getEnvDuration(EnvRequestTimeout, cfg.RequestTimeout)
	cfg.MaxRequestSize = getEnvNum(EnvMaxRequestSize, cfg.MaxRequestSize)

	cfg.ReadTimeout = getEnvDuration(EnvReadTimeout, cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvDuration(EnvWriteTimeout, cfg.WriteTimeout)
	cfg.IdleTimeout = getEnvDuration(EnvIdleTimeout, cfg.IdleTimeout)
	cfg.ShutdownTimeout = getEnvDuration(EnvShutdownTimeout, cfg.ShutdownTimeout)

	cfg.PageSize = getEnvNum(EnvPageSize, cfg.PageSize)
	cfg.MaxPageSize = getEnvNum(EnvMaxPageSize, cfg.MaxPageSize)

	cfg.DefaultHourlyRate = getEnvFloat(EnvDefaultHourlyRate, cfg.DefaultHourlyRate)
	cfg.DefaultPenaltyAmount = getEnvFloat(EnvDefaultPenaltyAmount, cfg.DefaultPenaltyAmount)
	cfg.BillingTimeZone = getEnvStr(EnvBillingTimeZone, cfg.BillingTimeZone)

	cfg.BookingRateLimit = getEnvNum(EnvBookingRateLimit, cfg.BookingRateLimit)
	cfg.BookingRateWindow = getEnvDuration(EnvBookingRateWindow, cfg.BookingRateWindow)

	cfg.KafkaEnabled = getEnvBool(EnvKafkaEnabled, cfg.KafkaEnabled)
	cfg.BookingEventsTopic = getEnvStr(EnvBookingEventsTopic, cfg.BookingEventsTopic)
	cfg.BookingEventsDLQTopic = getEnvStr(EnvBookingEventsDLQTopic, cfg.BookingEventsDLQTopic)

	cfg.MetricsEnabled = getEnvBool(EnvMetricsEnabled, cfg.MetricsEnabled)
	cfg.MetricsPath = getEnvStr(EnvMetricsPath, cfg.MetricsPath)
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// Validate checks every field and reports all problems at once. It also
// resolves BillingTimeZone into Location.
func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.PageSize <= 0 {
		errors = append(errors, fmt.Sprintf("PageSize must be positive, got: %d", cfg.PageSize))
	}
	if cfg.MaxPageSize < cfg.PageSize {
		errors = append(errors, fmt.Sprintf("MaxPageSize must be at least PageSize (%d), got: %d", cfg.PageSize, cfg.MaxPageSize))
	}

	if cfg.BookingRateLimit < 0 {
		errors = append(errors, fmt.Sprintf("BookingRateLimit cannot be negative, got: %d", cfg.BookingRateLimit))
	}
	if cfg.BookingRateWindow <= 0 {
		errors = append(errors, fmt.Sprintf("BookingRateWindow must be positive, got: %s", cfg.BookingRateWindow))
	}

	loc, err := time.LoadLocation(cfg.BillingTimeZone)
	if err != nil {
		errors = append(errors, fmt.Sprintf("BillingTimeZone must be a valid IANA zone, got: %s", cfg.BillingTimeZone))
	} else {
		cfg.Location = loc
	}

	if cfg.KafkaEnabled && strings.TrimSpace(cfg.BookingEventsTopic) == "" {
		errors = append(errors, "BookingEventsTopic cannot be empty when Kafka is enabled")
	}
	if cfg.MetricsEnabled && !strings.HasPrefix(cfg.MetricsPath, "/") {
		errors = append(errors, fmt.Sprintf("MetricsPath must start with '/', got: %s", cfg.MetricsPath))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"page_size", cfg.PageSize,
		"max_page_size", cfg.MaxPageSize,
		"default_hourly_rate", cfg.DefaultHourlyRate,
		"default_penalty_amount", cfg.DefaultPenaltyAmount,
		"billing_timezone", cfg.BillingTimeZone,
		"booking_rate_limit", cfg.BookingRateLimit,
		"booking_rate_window", cfg.BookingRateWindow,
		"kafka_enabled", cfg.KafkaEnabled,
		"booking_events_topic", cfg.BookingEventsTopic,
		"metrics_enabled", cfg.MetricsEnabled,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

// NormalizePaginationLimit maps a missing or non-positive limit to PageSize
// and caps it at MaxPageSize.
func (cfg *Config) NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return cfg.PageSize
	}
	return min(limit, cfg.MaxPageSize)
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
