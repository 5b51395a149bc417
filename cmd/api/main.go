package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/worker-directory/internal/api/http"
	"github.com/spec-kit/worker-directory/internal/api/http/handlers"
	"github.com/spec-kit/worker-directory/internal/auth"
	"github.com/spec-kit/worker-directory/internal/config"
	"github.com/spec-kit/worker-directory/internal/directory"
	"github.com/spec-kit/worker-directory/internal/events"
	"github.com/spec-kit/worker-directory/internal/observability"
	"github.com/spec-kit/worker-directory/internal/persistence"
	"github.com/spec-kit/worker-directory/internal/report"
	"github.com/spec-kit/worker-directory/internal/service"
	"github.com/spec-kit/worker-directory/internal/session"
	"github.com/spec-kit/worker-directory/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var sessions session.Store
	if redis.Enabled() {
		sessions = session.NewRedisStore(redis.Client, cfg.Session.TTL(), logger)
	} else {
		sessions = session.NewMemoryStore(cfg.Session.TTL())
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification), logger)

	staffAPI := directory.New(cfg.Directory.BaseURL, cfg.Directory.Timeout(), logger)
	workerList := service.NewWorkerListService(service.WorkerListDependencies{
		Directory:  staffAPI,
		Exporter:   report.NewExporter(report.Options{MaxRasterWidth: cfg.Report.MaxRasterWidth}, logger),
		Sessions:   sessions,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	tokens := auth.NewTokenManager(cfg.Session.Secret, cfg.Session.TTL())

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis, staffAPI),
		Workers:           handlers.NewWorkersHandler(workerList),
		Metrics:           handlers.NewMetricsHandler(metrics),
		SessionMiddleware: auth.NewSessionMiddleware(tokens, logger),
	})

	go func() {
		logger.Info("console listening", zap.String("addr", cfg.App.Addr()), zap.String("staff_api", staffAPI.BaseURL()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
