package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	cancelBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_booking"
	cancelSeriesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_series"
	createBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_booking"
	createGroupBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_group_booking"
	createSeriesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_series"
	getAvailabilityHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_booking"
	getBookingByReferenceHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_booking_by_reference"
	getClientBookingsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_client_bookings"
	listBookingsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_bookings"
	participantsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/participants"
	rescheduleBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/reschedule_booking"
	updateBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_booking"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/client"
	scheduleRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/notificationservice"
	"github.com/m04kA/SMC-SalonBooking/internal/notify"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
	groupsService "github.com/m04kA/SMC-SalonBooking/internal/service/groups"
	createBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	createGroupBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_group_booking"
	createSeriesUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_series"
	getAvailabilityUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_availability"
	rescheduleBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/ratelimit"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

const dbName = "salon"

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %s: %v", cfg.Booking.Timezone, err)
	}

	// Метрики (если включены). nil коллектор безопасен для всех вызовов
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, dbName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil, dbName)
	}

	txMgr := txmanager.NewTransactionManager(wrappedDB,
		txmanager.WithMaxRetries(cfg.Booking.TxMaxRetries),
		txmanager.WithBackoff(time.Duration(cfg.Booking.TxRetryBackoffMsec)*time.Millisecond),
	)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	clientRepository := clientRepo.NewRepository(wrappedDB)

	// Очередь уведомлений
	notificationClient := notificationservice.NewClient(
		cfg.Notifications.URL,
		cfg.Notifications.APIKey,
		time.Duration(cfg.Notifications.Timeout)*time.Second,
		log,
	)
	dispatcher := notify.NewDispatcher(notificationClient, log, metricsCollector, notify.Config{
		Workers:     cfg.Notifications.Workers,
		QueueSize:   cfg.Notifications.QueueSize,
		SendTimeout: time.Duration(cfg.Notifications.SendTimeout) * time.Second,
	})
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	dispatcher.Start(dispatcherCtx)
	log.Info("Notification dispatcher started (url=%s, workers=%d, queue=%d)",
		cfg.Notifications.URL, cfg.Notifications.Workers, cfg.Notifications.QueueSize)

	// Калькулятор свободных слотов
	calculator := availability.NewCalculator(
		catalogRepository,
		scheduleRepository,
		appointmentRepository,
		&availability.RealTimeProvider{},
		log,
	)
	aggregator := availability.NewAggregator(calculator, catalogRepository, log, cfg.Booking.AggregatorWorkers)

	// Сервисы
	bookingSvc := bookingsService.NewService(
		appointmentRepository,
		clientRepository,
		txMgr,
		dispatcher,
		log,
	)
	groupSvc := groupsService.NewService(
		appointmentRepository,
		clientRepository,
		txMgr,
		log,
	)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		clientRepository,
		calculator,
		txMgr,
		dispatcher,
		metricsCollector,
		location,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		calculator,
		txMgr,
		dispatcher,
		metricsCollector,
		location,
		log,
	)
	createSeriesUseCase := createSeriesUC.NewUseCase(createBookingUseCase, location, log)
	createGroupBookingUseCase := createGroupBookingUC.NewUseCase(createBookingUseCase, log)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(aggregator, location, log)

	// Handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	createSeries := createSeriesHandler.NewHandler(createSeriesUseCase, log)
	createGroupBooking := createGroupBookingHandler.NewHandler(createGroupBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookingByReference := getBookingByReferenceHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, location, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	cancelSeries := cancelSeriesHandler.NewHandler(bookingSvc, location, log)
	participants := participantsHandler.NewHandler(groupSvc, log)

	// Ограничение частоты запросов на запись
	var (
		limiter     ratelimit.Limiter
		redisClient *redis.Client
		memLimiter  *ratelimit.MemoryLimiter
	)
	if cfg.RateLimit.Enabled {
		switch cfg.RateLimit.Backend {
		case config.RateLimitBackendRedis:
			redisClient = redis.NewClient(&redis.Options{
				Addr:     cfg.RateLimit.RedisAddr,
				Password: cfg.RateLimit.RedisPassword,
				DB:       cfg.RateLimit.RedisDB,
			})
			if err := redisClient.Ping(context.Background()).Err(); err != nil {
				log.Warn("Redis is not reachable at %s: %v", cfg.RateLimit.RedisAddr, err)
			}
			limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.RequestsPerMinute, time.Minute, "salon:rl")
		default:
			memLimiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, 10*time.Minute)
			memLimiter.Start()
			limiter = memLimiter
		}
		log.Info("Rate limiting enabled (backend=%s, rpm=%d, fail_open=%t)",
			cfg.RateLimit.Backend, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.FailOpen)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			log.Error("GET /health - Database is unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// ============================================================
	// WRITE ROUTES (Auth + rate limit)
	// ============================================================

	writes := api.Methods(http.MethodPost, http.MethodPatch, http.MethodDelete).Subrouter()
	if limiter != nil {
		writes.Use(middleware.RateLimit(limiter, cfg.RateLimit.FailOpen, log))
	}

	// --- Бронирования ---
	writes.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	writes.HandleFunc("/bookings/series", createSeries.Handle).Methods(http.MethodPost)
	writes.HandleFunc("/bookings/group", createGroupBooking.Handle).Methods(http.MethodPost)
	writes.HandleFunc("/bookings/{bookingId:[0-9]+}", updateBooking.Handle).Methods(http.MethodPatch)
	writes.HandleFunc("/bookings/{bookingId:[0-9]+}", cancelBooking.Handle).Methods(http.MethodDelete)
	writes.HandleFunc("/bookings/{bookingId:[0-9]+}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPost)

	// --- Серии ---
	writes.HandleFunc("/series/{seriesId}", cancelSeries.Handle).Methods(http.MethodDelete)

	// --- Участники групп ---
	writes.HandleFunc("/bookings/{bookingId:[0-9]+}/participants", participants.Add).Methods(http.MethodPost)
	writes.HandleFunc("/bookings/{bookingId:[0-9]+}/participants/{clientId:[0-9]+}", participants.Remove).Methods(http.MethodDelete)

	// ============================================================
	// READ ROUTES (Auth)
	// ============================================================

	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/reference/{reference}", getBookingByReference.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/participants", participants.List).Methods(http.MethodGet)
	api.HandleFunc("/clients/{clientId:[0-9]+}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Уведомления, поставленные до остановки сервера, дописываются
	dispatcher.Stop()
	log.Info("Notification dispatcher stopped")

	if memLimiter != nil {
		memLimiter.Stop()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Failed to close redis client: %v", err)
		}
	}

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
