package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers"
	cancelBookingHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/cancel_booking"
	closeGameHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/close_game"
	createBookingHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/create_booking"
	createGameHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/create_game"
	getAvailableSlotsHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/get_booking"
	getCourtHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/get_court"
	getCourtBookingsHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/get_court_bookings"
	getGameHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/get_game"
	getUserBookingsHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/get_user_bookings"
	joinGameHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/join_game"
	leaveGameHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/leave_game"
	listGamesHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/list_games"
	listVenueCourtsHandler "github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers/list_venue_courts"
	"github.com/Abhijat05/QuickCourt-sub001/internal/api/middleware"
	"github.com/Abhijat05/QuickCourt-sub001/internal/config"
	"github.com/Abhijat05/QuickCourt-sub001/internal/infra/cache/availability"
	bookingRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/booking"
	courtRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/court"
	gameRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/game"
	"github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/migrations"
	"github.com/Abhijat05/QuickCourt-sub001/internal/integrations/notifier"
	"github.com/Abhijat05/QuickCourt-sub001/internal/scheduler"
	bookingsService "github.com/Abhijat05/QuickCourt-sub001/internal/service/bookings"
	courtsService "github.com/Abhijat05/QuickCourt-sub001/internal/service/courts"
	rosterService "github.com/Abhijat05/QuickCourt-sub001/internal/service/roster"
	completeBookingsUC "github.com/Abhijat05/QuickCourt-sub001/internal/usecase/complete_bookings"
	createBookingUC "github.com/Abhijat05/QuickCourt-sub001/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/Abhijat05/QuickCourt-sub001/internal/usecase/get_available_slots"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/dbmetrics"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/logger"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/metrics"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/txmanager"
)

const sweepTimeout = time.Minute

// domainMetrics доменные счетчики, общие для сервисов и use case
type domainMetrics interface {
	RecordBooking(result string)
	RecordRosterOperation(operation, result string)
	RecordCache(result string)
	RecordCompleted(count int64)
}

// availabilityCache кеш сетки доступности (Redis или заглушка)
type availabilityCache interface {
	createBookingUC.AvailabilityCache
	getAvailableSlotsUC.AvailabilityCache
	completeBookingsUC.AvailabilityCache
}

// gameNotifier канал уведомлений (RabbitMQ или лог)
type gameNotifier interface {
	Notify(ctx context.Context, recipientID int64, subject, body string) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load(config.DefaultPath)
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

	log.Info("Starting QuickCourt booking service...")

	venue, err := cfg.Venue.Settings()
	if err != nil {
		log.Fatal("Invalid venue settings: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db, cfg.Database.DBName, log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Метрики: при отключенных метриках запросы к БД не измеряются, доменные счетчики пустые
	var (
		metricsCollector *metrics.Metrics
		counters         domainMetrics = metrics.Nop{}
		wrappedDB        *dbmetrics.DB
	)
	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		counters = metricsCollector
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, metricsCollector, stopMetricsCh)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	txMgr := txmanager.NewTransactionManager(wrappedDB, txmanager.WithMaxAttempts(cfg.Database.TxMaxAttempts))

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	courtRepository := courtRepo.NewRepository(wrappedDB)
	gameRepository := gameRepo.NewRepository(wrappedDB)

	// Кеш доступности
	var cache availabilityCache = availability.Nop{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unavailable at %s, availability cache may miss: %v", cfg.Redis.Addr, err)
		}
		cache = availability.NewCache(rdb, time.Duration(cfg.Redis.TTL)*time.Second)
		log.Info("Availability cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	// Уведомления
	var notify gameNotifier = notifier.NewLogNotifier(log)
	if cfg.RabbitMQ.Enabled {
		client, err := notifier.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey, log)
		if err != nil {
			log.Warn("RabbitMQ unavailable, notifications will only be logged: %v", err)
		} else {
			defer client.Close()
			notify = client
			log.Info("Notifications published to exchange %s", cfg.RabbitMQ.Exchange)
		}
	}

	// Сервисы и use cases
	rosterSvc := rosterService.NewService(gameRepository, bookingRepository, notify, counters, txMgr, venue, log)
	bookingSvc := bookingsService.NewService(bookingRepository, rosterSvc, cache, txMgr, venue, log)
	courtSvc := courtsService.NewService(courtRepository, venue, log)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		courtRepository,
		rosterSvc,
		cache,
		counters,
		txMgr,
		venue,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		courtRepository,
		cache,
		counters,
		venue,
		log,
	)
	completeBookingsUseCase := completeBookingsUC.NewUseCase(bookingRepository, cache, counters, venue, log)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	createGame := createGameHandler.NewHandler(rosterSvc, log)
	listGames := listGamesHandler.NewHandler(rosterSvc, log)
	getGame := getGameHandler.NewHandler(rosterSvc, log)
	joinGame := joinGameHandler.NewHandler(rosterSvc, log)
	leaveGame := leaveGameHandler.NewHandler(rosterSvc, log)
	closeGame := closeGameHandler.NewHandler(rosterSvc, log)
	getCourt := getCourtHandler.NewHandler(courtSvc, log)
	listVenueCourts := listVenueCourtsHandler.NewHandler(courtSvc, log)
	getCourtBookings := getCourtBookingsHandler.NewHandler(bookingSvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recovery(log), middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			handlers.RespondError(w, http.StatusServiceUnavailable, handlers.CodeInternal, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/venues/{venueId}/courts", listVenueCourts.Handle).Methods(http.MethodGet)
	api.HandleFunc("/courts/{courtId}", getCourt.Handle).Methods(http.MethodGet)
	api.HandleFunc("/courts/{courtId}/availability", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/games", listGames.Handle).Methods(http.MethodGet)
	api.HandleFunc("/games/{gameId}", getGame.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Расписание корта (owner, admin) ---
	protected.HandleFunc("/courts/{courtId}/bookings", getCourtBookings.Handle).Methods(http.MethodGet)

	// --- Публичные игры ---
	protected.HandleFunc("/games", createGame.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/games/{gameId}/join", joinGame.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/games/{gameId}/leave", leaveGame.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/games/{gameId}/close", closeGame.Handle).Methods(http.MethodPost)

	// Фоновое завершение прошедших бронирований
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(venue.Loc(), log)
		if err != nil {
			log.Fatal("Failed to create scheduler: %v", err)
		}
		if _, err := sched.AddJob("complete-bookings", cfg.Scheduler.CompleteBookings, func() {
			completeBookingsUseCase.Run(ctx, sweepTimeout)
		}); err != nil {
			log.Fatal("Failed to register complete-bookings job: %v", err)
		}
		sched.Start()
	}

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		if sched != nil {
			if err := sched.Stop(); err != nil {
				log.Error("Scheduler shutdown failed: %v", err)
			}
		}

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error: %v", err)
		return
	}

	log.Info("Server stopped gracefully")
}
