package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/mes-service/internal/api/http/handlers"
	"github.com/spec-kit/mes-service/internal/auth"
	"github.com/spec-kit/mes-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Scan           *handlers.ScanHandler
	Auth           *handlers.AuthHandler
	WorkOrders     *handlers.WorkOrdersHandler
	Activity       *handlers.ActivityHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api")
	api.Post("/nfc/scan", cfg.Scan.Scan)
	api.Get("/nfc/status", cfg.Scan.Status)

	requireAuth := cfg.AuthMiddleware.Handle
	supervisor := auth.RequireRole(domain.EmployeeRoleAdmin, domain.EmployeeRoleManager)
	api.Put("/nfc/status", requireAuth, supervisor, cfg.Scan.UpdateStatus)
	api.Get("/activity", requireAuth, supervisor, cfg.Activity.Recent)
	api.Get("/employees", requireAuth, supervisor, cfg.Activity.Employees)

	workOrders := api.Group("/work-orders", requireAuth)
	workOrders.Get("/", cfg.WorkOrders.List)
	workOrders.Get("/:number", cfg.WorkOrders.Get)
	workOrders.Get("/:number/logs", cfg.WorkOrders.Logs)
}
