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
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	acceptQuoteHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/accept_quote"
	addExceptionHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/add_exception"
	cancelAppointmentHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/cancel_appointment"
	cancelQuotationHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/cancel_quotation"
	createAppointmentHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/create_appointment"
	createQuotationHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/create_quotation"
	declineQuoteHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/decline_quote"
	estimateDurationHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/estimate_duration"
	getAppointmentHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/get_availability"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/get_customer_appointments"
	getCustomerQuotationsHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/get_customer_quotations"
	getNotificationsHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/get_notifications"
	getQuotationHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/get_quotation"
	getSettingsHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/get_settings"
	getWorkshopAppointmentsHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/get_workshop_appointments"
	getWorkshopQuotationHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/get_workshop_quotation"
	getWorkshopQuotationsHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/get_workshop_quotations"
	removeExceptionHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/remove_exception"
	submitQuoteHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/submit_quote"
	updateSettingsHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/update_settings"
	validateSlotHandler "github.com/m04kA/SMC-QuoteService/internal/api/handlers/validate_slot"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-QuoteService/internal/infra/storage/appointment"
	notificationRepo "github.com/m04kA/SMC-QuoteService/internal/infra/storage/notification"
	quotationRepo "github.com/m04kA/SMC-QuoteService/internal/infra/storage/quotation"
	settingsRepo "github.com/m04kA/SMC-QuoteService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/broker"
	userServiceClient "github.com/m04kA/SMC-QuoteService/internal/integrations/userservice"
	workshopServiceClient "github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
	appointmentsService "github.com/m04kA/SMC-QuoteService/internal/service/appointments"
	"github.com/m04kA/SMC-QuoteService/internal/service/notifications"
	quotationsService "github.com/m04kA/SMC-QuoteService/internal/service/quotations"
	settingsService "github.com/m04kA/SMC-QuoteService/internal/service/settings"
	createAppointmentUC "github.com/m04kA/SMC-QuoteService/internal/usecase/create_appointment"
	getAvailabilityUC "github.com/m04kA/SMC-QuoteService/internal/usecase/get_availability"
	validateSlotUC "github.com/m04kA/SMC-QuoteService/internal/usecase/validate_slot"
	"github.com/m04kA/SMC-QuoteService/pkg/dbmetrics"
	"github.com/m04kA/SMC-QuoteService/pkg/logger"
	"github.com/m04kA/SMC-QuoteService/pkg/metrics"
	"github.com/m04kA/SMC-QuoteService/pkg/redislock"
	"github.com/m04kA/SMC-QuoteService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-QuoteService...")

	defaults, err := cfg.SchedulingDefaults()
	if err != nil {
		log.Fatal("Invalid scheduling config: %v", err)
	}
	log.Info("Scheduling defaults loaded (timezone=%s, interval=%dm, max_advance=%dd)",
		defaults.Location, defaults.SlotIntervalMinutes, defaults.MaxAdvanceDays)

	// Инициализируем метрики (если включены)
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка работает как прокси, транзакции идут через неё же
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Блокировка записи мастерская+день (если Redis настроен)
	var locker createAppointmentUC.Locker = redislock.NopLocker{}
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s, locks will fail until it is back: %v", cfg.Redis.Addr, err)
		}
		cancelPing()

		locker = redislock.New(
			redisClient,
			time.Duration(cfg.Redis.LockTTL)*time.Millisecond,
			time.Duration(cfg.Redis.RetryInterval)*time.Millisecond,
			time.Duration(cfg.Redis.MaxWait)*time.Millisecond,
		)
		log.Info("Redis appointment locks enabled (addr=%s)", cfg.Redis.Addr)
	} else {
		log.Info("Redis is not configured, appointment races are resolved by serializable transactions")
	}

	// Публикация уведомлений (если RabbitMQ настроен)
	var publisher quotationsService.Publisher = broker.NopPublisher{}
	if cfg.RabbitMQ.Enabled() {
		publisher = broker.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log)
		log.Info("RabbitMQ publisher enabled (queue=%s)", cfg.RabbitMQ.Queue)
	} else {
		log.Info("RabbitMQ is not configured, notifications stay in outbox")
	}

	// Инициализируем интеграционных клиентов
	workshopClient := workshopServiceClient.NewClient(
		cfg.WorkshopService.URL,
		time.Duration(cfg.WorkshopService.Timeout)*time.Second,
		log,
	)
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (WorkshopService=%s timeout=%ds, UserService=%s timeout=%ds)",
		cfg.WorkshopService.URL, cfg.WorkshopService.Timeout, cfg.UserService.URL, cfg.UserService.Timeout)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	notificationRepository := notificationRepo.NewRepository(wrappedDB)
	quotationRepository := quotationRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	settingsSvc := settingsService.NewService(
		settingsRepository,
		workshopClient,
		defaults,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		settingsSvc,
		workshopClient,
		log,
	)
	quotationsSvc := quotationsService.NewService(
		quotationRepository,
		notificationRepository,
		publisher,
		workshopClient,
		userClient,
		txMgr,
		metricsCollector,
		quotationsService.Config{
			ExpiryDays: cfg.Quotations.ExpiryDays,
			Currency:   cfg.Quotations.Currency,
		},
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		appointmentRepository,
		settingsSvc,
		workshopClient,
		defaults,
		log,
	)
	validateSlotUseCase := validateSlotUC.NewUseCase(
		appointmentRepository,
		settingsSvc,
		workshopClient,
		metricsCollector,
		defaults,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		settingsSvc,
		quotationRepository,
		workshopClient,
		locker,
		txMgr,
		defaults,
		log,
	)

	// Повторная публикация уведомлений из outbox
	relayCtx, stopRelay := context.WithCancel(context.Background())
	relayDone := make(chan struct{})
	if cfg.Relay.Enabled && cfg.RabbitMQ.Enabled() {
		relay := notifications.NewRelay(
			notificationRepository,
			publisher,
			time.Duration(cfg.Relay.Interval)*time.Second,
			uint64(cfg.Relay.Batch),
			log,
		)
		go func() {
			defer close(relayDone)
			relay.Run(relayCtx)
		}()
		log.Info("Outbox relay started (interval=%ds, batch=%d)", cfg.Relay.Interval, cfg.Relay.Batch)
	} else {
		close(relayDone)
	}

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	validateSlot := validateSlotHandler.NewHandler(validateSlotUseCase, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)
	addException := addExceptionHandler.NewHandler(settingsSvc, log)
	removeException := removeExceptionHandler.NewHandler(settingsSvc, log)
	estimateDuration := estimateDurationHandler.NewHandler(settingsSvc, log)

	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getWorkshopAppointments := getWorkshopAppointmentsHandler.NewHandler(appointmentsSvc, log)

	createQuotation := createQuotationHandler.NewHandler(quotationsSvc, log)
	getQuotation := getQuotationHandler.NewHandler(quotationsSvc, log)
	getCustomerQuotations := getCustomerQuotationsHandler.NewHandler(quotationsSvc, log)
	cancelQuotation := cancelQuotationHandler.NewHandler(quotationsSvc, log)
	submitQuote := submitQuoteHandler.NewHandler(quotationsSvc, log)
	acceptQuote := acceptQuoteHandler.NewHandler(quotationsSvc, log)
	declineQuote := declineQuoteHandler.NewHandler(quotationsSvc, log)
	getWorkshopQuotations := getWorkshopQuotationsHandler.NewHandler(quotationsSvc, log)
	getWorkshopQuotation := getWorkshopQuotationHandler.NewHandler(quotationsSvc, log)
	getNotifications := getNotificationsHandler.NewHandler(quotationsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Timeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты на период
	api.HandleFunc("/workshops/{workshopId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Проверка конкретного слота с альтернативами
	api.HandleFunc("/workshops/{workshopId}/availability/check", validateSlot.Handle).Methods(http.MethodGet)

	// Настройки записи мастерской
	api.HandleFunc("/workshops/{workshopId}/appointment-settings", getSettings.Handle).Methods(http.MethodGet)

	// Оценка длительности по услугам
	api.HandleFunc("/workshops/{workshopId}/duration-estimate", estimateDuration.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Запросы на расчёт (клиент) ---
	protected.HandleFunc("/quotations", createQuotation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/quotations", getCustomerQuotations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/quotations/{quotationId}", getQuotation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/quotations/{quotationId}/cancel", cancelQuotation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/quotations/{quotationId}/quotes/{quoteId}/accept", acceptQuote.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/quotations/{quotationId}/quotes/{quoteId}/decline", declineQuote.Handle).Methods(http.MethodPost)

	// --- Предложения (мастерская) ---
	protected.HandleFunc("/quotations/{quotationId}/quotes", submitQuote.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/workshops/{workshopId}/quotations", getWorkshopQuotations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/workshops/{workshopId}/quotations/{quotationId}", getWorkshopQuotation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/workshops/{workshopId}/notifications", getNotifications.Handle).Methods(http.MethodGet)

	// --- Записи на обслуживание ---
	protected.HandleFunc("/workshops/{workshopId}/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/workshops/{workshopId}/appointments", getWorkshopAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Управление настройками (для менеджеров) ---
	protected.HandleFunc("/workshops/{workshopId}/appointment-settings", updateSettings.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/workshops/{workshopId}/appointment-settings/exceptions", addException.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/workshops/{workshopId}/appointment-settings/exceptions/{exceptionId}",
		removeException.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
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

	stopRelay()
	<-relayDone

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
