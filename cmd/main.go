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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers"
	cancelBookingHandler "github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers/create_booking"
	excursionsHandler "github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers/excursions"
	getAvailableSlotsHandler "github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers/get_booking"
	getSlotBookingsHandler "github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers/get_slot_bookings"
	getUserBookingsHandler "github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers/get_user_bookings"
	markNoShowHandler "github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers/mark_no_show"
	paymentsHandler "github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers/payments"
	promoCodesHandler "github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers/promocodes"
	reportsHandler "github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers/reports"
	slotsHandler "github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers/slots"
	usersHandler "github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers/users"
	"github.com/Groisin18/Excursions-bot-sub000/internal/api/middleware"
	"github.com/Groisin18/Excursions-bot-sub000/internal/bot"
	"github.com/Groisin18/Excursions-bot-sub000/internal/config"
	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	bookingRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/booking"
	excursionRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/excursion"
	financeRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/finance"
	notificationRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/notification"
	paymentRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/payment"
	promoCodeRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/promocode"
	reportRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/report"
	slotRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/slot"
	userRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/user"
	"github.com/Groisin18/Excursions-bot-sub000/internal/pricing"
	bookingsService "github.com/Groisin18/Excursions-bot-sub000/internal/service/bookings"
	excursionsService "github.com/Groisin18/Excursions-bot-sub000/internal/service/excursions"
	notificationsService "github.com/Groisin18/Excursions-bot-sub000/internal/service/notifications"
	paymentsService "github.com/Groisin18/Excursions-bot-sub000/internal/service/payments"
	promoCodesService "github.com/Groisin18/Excursions-bot-sub000/internal/service/promocodes"
	reportsService "github.com/Groisin18/Excursions-bot-sub000/internal/service/reports"
	slotsService "github.com/Groisin18/Excursions-bot-sub000/internal/service/slots"
	usersService "github.com/Groisin18/Excursions-bot-sub000/internal/service/users"
	createBookingUC "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/create_booking"
	createSlotUC "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/create_slot"
	getAvailableSlotsUC "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/get_available_slots"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/dbmetrics"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/logger"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/metrics"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
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

	log.Info("Starting excursions service...")
	log.Info("Configuration loaded from %s", configPath)

	loc, _ := cfg.Bot.Location() // проверено в config.Validate

	// Метрики (nil-safe: при выключенных метриках все Observe* ничего не делают)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Metrics.Enabled {
		prometheus.MustRegister(collectors.NewDBStatsCollector(db, cfg.Database.DBName))
	}

	wrappedDB := dbmetrics.Wrap(db, metricsCollector)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	userRepository := userRepo.NewRepository(wrappedDB)
	excursionRepository := excursionRepo.NewRepository(wrappedDB)
	slotRepository := slotRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)
	promoCodeRepository := promoCodeRepo.NewRepository(wrappedDB)
	financeRepository := financeRepo.NewRepository(wrappedDB)
	reportRepository := reportRepo.NewRepository(wrappedDB)
	notificationRepository := notificationRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	notifier := notificationsService.NewService(userRepository, notificationRepository, nil, log)
	notifier.SetLocation(loc)

	userSvc := usersService.NewService(userRepository, notifier, txMgr, log)
	excursionSvc := excursionsService.NewService(excursionRepository, log)
	promoCodeSvc := promoCodesService.NewService(promoCodeRepository, log)
	paymentSvc := paymentsService.NewService(bookingRepository, paymentRepository, notifier, txMgr, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		userRepository,
		paymentSvc,
		notifier,
		metricsCollector,
		txMgr,
		cfg.Booking.CancelDeadline(),
		log,
	)
	slotSvc := slotsService.NewService(
		slotsService.Repositories{
			Slots:      slotRepository,
			Excursions: excursionRepository,
			Users:      userRepository,
			Bookings:   bookingRepository,
			Payments:   paymentRepository,
			Salaries:   financeRepository,
		},
		paymentSvc,
		notifier,
		metricsCollector,
		txMgr,
		slotsService.PayrollRule{
			BaseRate:       cfg.Payroll.BaseRate(),
			RevenuePercent: cfg.Payroll.RevenuePercent,
		},
		log,
	)
	reportSvc := reportsService.NewService(reportRepository, financeRepository, excursionRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		createBookingUC.Repositories{
			Slots:      slotRepository,
			Excursions: excursionRepository,
			Users:      userRepository,
			Bookings:   bookingRepository,
			PromoCodes: promoCodeRepository,
		},
		pricing.NewCalculator(cfg.Pricing.Tiers()),
		notifier,
		metricsCollector,
		txMgr,
		createBookingUC.Rules{
			MinBookingNotice: cfg.Booking.MinBookingNotice(),
			DefaultWeightKg:  cfg.Booking.DefaultPassengerWeight,
			MaxPassengers:    cfg.Booking.MaxPassengersPerBooking,
		},
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		slotRepository,
		bookingRepository,
		excursionRepository,
		getAvailableSlotsUC.Rules{
			MinBookingNotice: cfg.Booking.MinBookingNotice(),
			SearchWindowDays: cfg.Booking.SearchWindowDays,
		},
		log,
	)
	createSlotUseCase := createSlotUC.NewUseCase(slotRepository, excursionRepository, userRepository, txMgr, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, loc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	markNoShow := markNoShowHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getSlotBookings := getSlotBookingsHandler.NewHandler(bookingSvc, log)
	excursions := excursionsHandler.NewHandler(excursionSvc, log)
	slots := slotsHandler.NewHandler(createSlotUseCase, slotSvc, log)
	payments := paymentsHandler.NewHandler(paymentSvc, log)
	promoCodes := promoCodesHandler.NewHandler(promoCodeSvc, log)
	reports := reportsHandler.NewHandler(reportSvc, log)
	users := usersHandler.NewHandler(userSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware(metricsCollector))

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			handlers.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты для бронирования
	api.HandleFunc("/slots/available", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Капитан и администратор ---
	staff := protected.PathPrefix("").Subrouter()
	staff.Use(middleware.RequireRole(userSvc, log, domain.RoleAdmin, domain.RoleCaptain))

	// Брони на выход (капитан видит только свои слоты, проверяет сервис)
	staff.HandleFunc("/slots/{slotId:[0-9]+}/bookings", getSlotBookings.Handle).Methods(http.MethodGet)
	// Предстоящие слоты капитана
	staff.HandleFunc("/captain/slots", slots.ListMine).Methods(http.MethodGet)

	// --- Администратор ---
	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireRole(userSvc, log, domain.RoleAdmin))

	// Экскурсии
	admin.HandleFunc("/excursions", excursions.Create).Methods(http.MethodPost)
	admin.HandleFunc("/excursions", excursions.List).Methods(http.MethodGet)
	admin.HandleFunc("/excursions/{excursionId:[0-9]+}", excursions.Get).Methods(http.MethodGet)
	admin.HandleFunc("/excursions/{excursionId:[0-9]+}", excursions.Update).Methods(http.MethodPatch)

	// Слоты
	admin.HandleFunc("/slots", slots.Create).Methods(http.MethodPost)
	admin.HandleFunc("/slots", slots.List).Methods(http.MethodGet)
	admin.HandleFunc("/slots/{slotId:[0-9]+}", slots.Get).Methods(http.MethodGet)
	admin.HandleFunc("/slots/{slotId:[0-9]+}/status", slots.ChangeStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/slots/{slotId:[0-9]+}/captain", slots.AssignCaptain).Methods(http.MethodPut)

	// Бронирования
	admin.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/preview", createBooking.HandlePreview).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}/no-show", markNoShow.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}/payments", payments.Register).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}/payments", payments.List).Methods(http.MethodGet)

	// Пользователи
	admin.HandleFunc("/users/{userId:[0-9]+}", users.Get).Methods(http.MethodGet)
	admin.HandleFunc("/users/{userId:[0-9]+}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/users/{userId:[0-9]+}/dependents", users.RegisterDependent).Methods(http.MethodPost)
	admin.HandleFunc("/users/{userId:[0-9]+}/dependents", users.ListDependents).Methods(http.MethodGet)
	admin.HandleFunc("/users/{userId:[0-9]+}/role", users.SetRole).Methods(http.MethodPut)
	admin.HandleFunc("/captains", users.ListCaptains).Methods(http.MethodGet)
	admin.HandleFunc("/captains/{captainId:[0-9]+}/salaries", reports.CaptainSalaries).Methods(http.MethodGet)

	// Промокоды
	admin.HandleFunc("/promocodes", promoCodes.Create).Methods(http.MethodPost)
	admin.HandleFunc("/promocodes", promoCodes.List).Methods(http.MethodGet)
	admin.HandleFunc("/promocodes/{code}", promoCodes.Check).Methods(http.MethodGet)
	admin.HandleFunc("/promocodes/{code}", promoCodes.Deactivate).Methods(http.MethodDelete)

	// Отчеты и финансы
	admin.HandleFunc("/reports/revenue", reports.Revenue).Methods(http.MethodGet)
	admin.HandleFunc("/reports/payroll", reports.Payroll).Methods(http.MethodGet)
	admin.HandleFunc("/expenses", reports.AddExpense).Methods(http.MethodPost)
	admin.HandleFunc("/expenses", reports.ListExpenses).Methods(http.MethodGet)
	admin.HandleFunc("/salaries/{salaryId:[0-9]+}/pay", reports.PaySalary).Methods(http.MethodPatch)

	// Чат-бот
	var chatBot *bot.Bot
	if cfg.Bot.Enabled {
		router := bot.NewRouter(bot.Deps{
			Users:          userSvc,
			Bookings:       bookingSvc,
			Reports:        reportSvc,
			CreateBooking:  createBookingUseCase,
			AvailableSlots: getAvailableSlotsUseCase,
			Metrics:        metricsCollector,
			Location:       loc,
			Logger:         log,
		})
		chatBot, err = bot.New(cfg.Bot.Token, router, log)
		if err != nil {
			log.Fatal("Failed to create bot: %v", err)
		}
		notifier.SetSender(bot.NewSender(chatBot.Session()))
		if err := chatBot.Start(); err != nil {
			log.Fatal("Failed to start bot: %v", err)
		}
	} else {
		log.Info("Chat bot disabled, notifications will be recorded as skipped")
	}

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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if chatBot != nil {
		if err := chatBot.Stop(); err != nil {
			log.Error("Failed to close bot session: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
