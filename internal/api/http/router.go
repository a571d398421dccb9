package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskwise/workflow-service/internal/api/http/handlers"
	"github.com/deskwise/workflow-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Get("/:id/history", cfg.Tickets.History)
	tickets.Post("/:id/transition", cfg.Tickets.Transition)
	tickets.Post("/:id/pause", cfg.Tickets.Pause)
	tickets.Post("/:id/resume", cfg.Tickets.Resume)
	tickets.Post("/:id/priority", cfg.Tickets.ChangePriority)
}
