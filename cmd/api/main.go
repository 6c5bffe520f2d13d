package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/gira-airport/complaint-service/internal/api/http"
	"github.com/gira-airport/complaint-service/internal/api/http/handlers"
	"github.com/gira-airport/complaint-service/internal/auth"
	"github.com/gira-airport/complaint-service/internal/authz"
	"github.com/gira-airport/complaint-service/internal/clock"
	"github.com/gira-airport/complaint-service/internal/config"
	"github.com/gira-airport/complaint-service/internal/events"
	"github.com/gira-airport/complaint-service/internal/notification"
	"github.com/gira-airport/complaint-service/internal/observability"
	"github.com/gira-airport/complaint-service/internal/persistence"
	"github.com/gira-airport/complaint-service/internal/repository"
	"github.com/gira-airport/complaint-service/internal/service"
	"github.com/gira-airport/complaint-service/internal/sla"
	"github.com/gira-airport/complaint-service/internal/worker"
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

	pool := pg.PoolHandle()
	complaintRepo := repository.NewComplaintRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	fileDirectory := repository.NewFileDirectory(pool)

	policy := sla.NewPolicy(sla.DefaultMatrix())
	if cfg.Sla.MatrixPath != "" {
		matrix, err := sla.LoadMatrix(cfg.Sla.MatrixPath)
		if err != nil {
			logger.Fatal("failed to load sla matrix", zap.Error(err))
		}
		policy.Reload(matrix)
		logger.Info("sla matrix loaded", zap.String("path", cfg.Sla.MatrixPath))
	}

	systemClock := clock.System()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	observability.RegisterEventLogger(dispatcher, logger, metrics)

	notifier := notification.NewDispatcher(
		notificationRepo,
		userRepo,
		notification.NewResendGateway(cfg.Notification),
		notification.NewRedisChannel(redis.Client),
		systemClock,
		logger,
	)

	lifecycle := service.NewLifecycleService(service.LifecycleDependencies{
		ComplaintRepo: complaintRepo,
		AuditRepo:     auditRepo,
		UserRepo:      userRepo,
		CategoryRepo:  categoryRepo,
		Files:         fileDirectory,
		Notifier:      notifier,
		Policy:        policy,
		Gate:          authz.NewGate(),
		Dispatcher:    dispatcher,
		Clock:         systemClock,
		Logger:        logger,
	})

	sweeper := worker.NewSlaSweeper(worker.SweeperDependencies{
		ComplaintRepo: complaintRepo,
		AuditRepo:     auditRepo,
		UserRepo:      userRepo,
		Notifier:      notifier,
		Dispatcher:    dispatcher,
		Clock:         systemClock,
		Interval:      cfg.Sla.SweepInterval(),
		Metrics:       metrics,
		Logger:        logger,
	})
	go sweeper.Start(ctx)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, 60)
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Complaints:     handlers.NewComplaintsHandler(lifecycle),
		Notifications:  handlers.NewNotificationsHandler(notifier),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
