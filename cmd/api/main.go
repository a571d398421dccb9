package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/deskwise/workflow-service/internal/api/http"
	"github.com/deskwise/workflow-service/internal/api/http/handlers"
	"github.com/deskwise/workflow-service/internal/auth"
	"github.com/deskwise/workflow-service/internal/config"
	"github.com/deskwise/workflow-service/internal/engine"
	"github.com/deskwise/workflow-service/internal/events"
	"github.com/deskwise/workflow-service/internal/observability"
	"github.com/deskwise/workflow-service/internal/persistence"
	"github.com/deskwise/workflow-service/internal/repository"
	"github.com/deskwise/workflow-service/internal/sequence"
	"github.com/deskwise/workflow-service/internal/service"
	"github.com/deskwise/workflow-service/internal/sla"
	"github.com/deskwise/workflow-service/internal/worker"
	"github.com/deskwise/workflow-service/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	registry, err := workflow.Load()
	if err != nil {
		logger.Fatal("invalid workflow definitions", zap.Error(err))
	}

	pool := pg.PoolHandle()
	ticketStore := repository.NewTicketStore(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)

	var counters sequence.CounterStore
	switch cfg.Worker.CounterBackend {
	case "redis":
		counters = repository.NewRedisCounterStore(redis.Client)
	default:
		counters = repository.NewPostgresCounterStore(pool)
	}
	sequencer := sequence.NewSequencer(counters)

	dispatcher := events.NewInMemoryDispatcher()

	eng, err := engine.New(engine.Dependencies{
		Registry:   registry,
		Policies:   sla.DefaultPolicyTable(),
		Sequencer:  sequencer,
		Store:      ticketStore,
		History:    historyRepo,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to build engine", zap.Error(err))
	}

	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notifications)

	monitor := worker.NewBreachMonitor(
		eng,
		ticketStore,
		engine.SystemClock(),
		metrics,
		logger,
		cfg.Worker.SweepInterval(),
		cfg.Worker.SweepBatchSize,
	)
	go monitor.Run(ctx)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewMiddleware(tokenManager, cfg.Auth.APIKeyHashes)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(
		cfg.App.Name,
		cfg.App.Version,
		pg,
		redis,
		cfg.Worker.CounterBackend == "redis",
	)
	ticketsHandler := handlers.NewTicketsHandler(eng, historyRepo)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Tickets:        ticketsHandler,
		AuthMiddleware: authMiddleware,
	})

	metricsServer := &http.Server{Addr: cfg.App.MetricsAddr(), Handler: metricsMux(metrics)}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics listen", zap.Error(err))
		}
	}()

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = metricsServer.Shutdown(context.Background())
	_ = app.Shutdown()
}

func metricsMux(metrics *observability.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
