package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the optional TOML file. Every field is a pointer so that
// keys missing from the file leave the current value alone.
type fileConfig struct {
	Mongo struct {
		URI         *string   `toml:"uri"`
		Database    *string   `toml:"database"`
		ConnTimeout *duration `toml:"conn_timeout"`
	} `toml:"mongo"`

	Server struct {
		Port            *string   `toml:"port"`
		RequestTimeout  *duration `toml:"request_timeout"`
		MaxRequestSize  *int      `toml:"max_request_size"`
		ReadTimeout     *duration `toml:"read_timeout"`
		WriteTimeout    *duration `toml:"write_timeout"`
		IdleTimeout     *duration `toml:"idle_timeout"`
		ShutdownTimeout *duration `toml:"shutdown_timeout"`
		PageSize        *int      `toml:"page_size"`
		MaxPageSize     *int      `toml:"max_page_size"`
	} `toml:"server"`

	Logs struct {
		Level *string `toml:"level"`
	} `toml:"logs"`

	Billing struct {
		DefaultHourlyRate    *float64 `toml:"default_hourly_rate"`
		DefaultPenaltyAmount *float64 `toml:"default_penalty_amount"`
		TimeZone             *string  `toml:"timezone"`
	} `toml:"billing"`

	RateLimit struct {
		Bookings *int      `toml:"bookings"`
		Window   *duration `toml:"window"`
	} `toml:"rate_limit"`

	Events struct {
		Enabled  *bool   `toml:"enabled"`
		Topic    *string `toml:"topic"`
		DLQTopic *string `toml:"dlq_topic"`
	} `toml:"events"`

	Metrics struct {
		Enabled *bool   `toml:"enabled"`
		Path    *string `toml:"path"`
	} `toml:"metrics"`
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (cfg *Config) applyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return err
	}
	cfg.applyFileConfig(&fc)
	return nil
}

func (cfg *Config) applyFileConfig(fc *fileConfig) {
	setStr(&cfg.MongoURI, fc.Mongo.URI)
	setStr(&cfg.MongoDatabaseName, fc.Mongo.Database)
	setDuration(&cfg.MongoConnTimeout, fc.Mongo.ConnTimeout)

	setStr(&cfg.Port, fc.Server.Port)
	setDuration(&cfg.RequestTimeout, fc.Server.RequestTimeout)
	setInt(&cfg.MaxRequestSize, fc.Server.MaxRequestSize)
	setDuration(&cfg.ReadTimeout, fc.Server.ReadTimeout)
	setDuration(&cfg.WriteTimeout, fc.Server.WriteTimeout)
	setDuration(&cfg.IdleTimeout, fc.Server.IdleTimeout)
	setDuration(&cfg.ShutdownTimeout, fc.Server.ShutdownTimeout)
	setInt(&cfg.PageSize, fc.Server.PageSize)
	setInt(&cfg.MaxPageSize, fc.Server.MaxPageSize)

	setStr(&cfg.LogLevel, fc.Logs.Level)

	if fc.Billing.DefaultHourlyRate != nil {
		cfg.DefaultHourlyRate = *fc.Billing.DefaultHourlyRate
	}
	if fc.Billing.DefaultPenaltyAmount != nil {
		cfg.DefaultPenaltyAmount = *fc.Billing.DefaultPenaltyAmount
	}
	setStr(&cfg.BillingTimeZone, fc.Billing.TimeZone)

	setInt(&cfg.BookingRateLimit, fc.RateLimit.Bookings)
	setDuration(&cfg.BookingRateWindow, fc.RateLimit.Window)

	if fc.Events.Enabled != nil {
		cfg.KafkaEnabled = *fc.Events.Enabled
	}
	setStr(&cfg.BookingEventsTopic, fc.Events.Topic)
	setStr(&cfg.BookingEventsDLQTopic, fc.Events.DLQTopic)

	if fc.Metrics.Enabled != nil {
		cfg.MetricsEnabled = *fc.Metrics.Enabled
	}
	setStr(&cfg.MetricsPath, fc.Metrics.Path)
}

func setStr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *duration) {
	if src != nil {
		*dst = src.Duration
	}
}
