package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gira-airport/complaint-service/internal/api/http/handlers"
	"github.com/gira-airport/complaint-service/internal/auth"
	"github.com/gira-airport/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Complaints     *handlers.ComplaintsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	complaints := api.Group("/complaints")
	complaints.Post("", cfg.Complaints.Create)
	complaints.Get("", cfg.Complaints.List)
	complaints.Get("/number/:number", cfg.Complaints.GetByNumber)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Patch("/:id", cfg.Complaints.Update)
	complaints.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Complaints.Delete)
	complaints.Get("/:id/audit", cfg.Complaints.Audit)
	complaints.Post("/:id/escalate", auth.RequireRole(domain.RoleAgent), cfg.Complaints.Escalate)

	notifications := api.Group("/notifications")
	notifications.Get("", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Post("/retry-failed", auth.RequireRole(domain.RoleAdmin), cfg.Notifications.RetryFailed)
	notifications.Delete("/purge", auth.RequireRole(domain.RoleAdmin), cfg.Notifications.Purge)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
}
