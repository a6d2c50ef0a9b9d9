package main

import (
	adminhandler "parking/internal/admin/handler"
	adminservice "parking/internal/admin/service"
	"parking/internal/bookings/events"
	bookingshandler "parking/internal/bookings/handler"
	bookingsrepo "parking/internal/bookings/repository"
	bookingsservice "parking/internal/bookings/service"
	bookingsvalidator "parking/internal/bookings/validator"
	"parking/internal/health"
	settingshandler "parking/internal/settings/handler"
	settingsrepo "parking/internal/settings/repository"
	settingsservice "parking/internal/settings/service"
	settingsvalidator "parking/internal/settings/validator"
	slotshandler "parking/internal/slots/handler"
	slotsrepo "parking/internal/slots/repository"
	slotsservice "parking/internal/slots/service"
	slotsvalidator "parking/internal/slots/validator"
	"parking/pkg/app"
	"parking/pkg/config"
	httputil "parking/pkg/http"
	"parking/pkg/kafka"
	kafka_config "parking/pkg/kafka/config"
	kafka_middleware "parking/pkg/kafka/middleware"
	"parking/pkg/metrics"
	"parking/pkg/middleware"
)

const ServiceName = "parking"

func main() {
	cfg := config.Load(ServiceName)
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Parking service")

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(ServiceName)
	}

	serverApp := app.NewApplication(cfg).WithMetrics(m)
	publisher := initPublisher(cfg, m, serverApp)

	settingsService := settingsservice.NewSettingsService(
		settingsrepo.NewMongoSettingsRepository(cfg),
		settingsvalidator.NewSettingsValidator(),
		cfg,
	)
	slotService := slotsservice.NewSlotService(
		slotsrepo.NewMongoSlotRepository(cfg),
		slotsvalidator.NewSlotValidator(cfg.Log),
		settingsService,
		m,
		cfg,
	)
	bookingService := bookingsservice.NewBookingService(
		bookingsrepo.NewMongoBookingRepository(cfg),
		slotService,
		settingsService,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher,
		m,
		cfg,
	)
	dashboardService := adminservice.NewDashboardService(slotService, bookingService)

	var limiter *middleware.UserRateLimiter
	if cfg.BookingRateLimit > 0 {
		limiter = middleware.NewUserRateLimiter(cfg.BookingRateLimit, cfg.BookingRateWindow, cfg.Log)
		serverApp.OnShutdown(limiter.Stop)
	}

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	pages := httputil.NewPaginator(cfg)

	serverApp.OnShutdown(cfg.GracefulShutdown)
	serverApp.SetApp(
		health.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		slotshandler.NewSlotHandler(slotService, pages, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, limiter, pages, cfg.Log),
		settingshandler.NewSettingsHandler(settingsService, cfg.Log),
		adminhandler.NewDashboardHandler(dashboardService, cfg.Log),
	)
	serverApp.Run()
}

// initPublisher returns a Kafka-backed publisher when events are enabled and
// a no-op one otherwise.
func initPublisher(cfg *config.Config, m *metrics.Metrics, serverApp *app.Application) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Booking events disabled")
		return events.NewNoopPublisher()
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware(m))

	cfg.Log.Info("Booking events enabled",
		"brokers", kafkaCfg.Brokers,
		"topic", cfg.BookingEventsTopic,
		"dlq_topic", cfg.BookingEventsDLQTopic,
	)
	publisher := events.NewKafkaPublisher(producer, cfg.Log.With("component", "booking-events"))
	serverApp.OnShutdown(func() {
		publisher.Close()
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})
	return publisher
}
