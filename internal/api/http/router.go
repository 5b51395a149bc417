package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/worker-directory/internal/api/http/handlers"
	"github.com/spec-kit/worker-directory/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Workers           *handlers.WorkersHandler
	Metrics           *handlers.MetricsHandler
	SessionMiddleware *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Get)

	workers := app.Group("/workers", cfg.SessionMiddleware.Handle)
	workers.Get("/", cfg.Workers.Get)
	workers.Get("/report.pdf", cfg.Workers.Report)
	workers.Post("/reload", cfg.Workers.Reload)
	workers.Put("/criteria", cfg.Workers.SetCriteria)
	workers.Post("/search", cfg.Workers.Search)
	workers.Post("/clear", cfg.Workers.Clear)
	workers.Delete("/:id", cfg.Workers.Delete)
}
