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

	httptransport "github.com/spec-kit/mes-service/internal/api/http"
	"github.com/spec-kit/mes-service/internal/api/http/handlers"
	"github.com/spec-kit/mes-service/internal/auth"
	"github.com/spec-kit/mes-service/internal/config"
	"github.com/spec-kit/mes-service/internal/events"
	"github.com/spec-kit/mes-service/internal/observability"
	"github.com/spec-kit/mes-service/internal/persistence"
	"github.com/spec-kit/mes-service/internal/repository"
	"github.com/spec-kit/mes-service/internal/seed"
	"github.com/spec-kit/mes-service/internal/service"
	"github.com/spec-kit/mes-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, "api")
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

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	repos := repository.NewSet(pg.PoolHandle(), redis.Client, cfg.Badge.LoginEnabled)
	if !pg.Enabled() && cfg.Badge.DemoSeed {
		if _, err := seed.Apply(ctx, seed.Sample(time.Now().UTC()), repos.Employees, repos.WorkOrders, cfg.Badge.DemoPassword, cfg.Auth.BcryptCost, logger); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	activityService := service.NewActivityService(dispatcher, repos.ActivityLogs, logger)
	worker.StartActivityWorker(activityService)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		EmployeeRepo: repos.Employees,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	workOrderService := service.NewWorkOrderService(service.WorkOrderDependencies{
		WorkOrderRepo:     repos.WorkOrders,
		ProductionLogRepo: repos.ProductionLogs,
		Authorizer:        service.RolePolicy{},
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	badgeService := service.NewBadgeService(repos.Employees)
	scanService := service.NewScanService(cfg.Badge, service.ScanDependencies{
		Badges:       badgeService,
		WorkOrders:   workOrderService,
		Auth:         authService,
		SettingsRepo: repos.Settings,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.Employees, cfg.Auth.SessionCookieName)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Scan:           handlers.NewScanHandler(scanService, cfg.Auth.SessionCookieName, cfg.App.Env == "production"),
		Auth:           handlers.NewAuthHandler(authService),
		WorkOrders:     handlers.NewWorkOrdersHandler(workOrderService),
		Activity:       handlers.NewActivityHandler(activityService, badgeService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
