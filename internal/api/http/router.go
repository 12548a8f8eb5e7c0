package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/assistant-service/internal/api/http/handlers"
	"github.com/spec-kit/assistant-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Assistant      *handlers.AssistantHandler
	Tickets        *handlers.TicketsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Users.Register)
	app.Post("/auth/login", cfg.Users.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())

	assistantGroup := protected.Group("/assistant")
	assistantGroup.Get("/session", cfg.Assistant.GetSession)
	assistantGroup.Delete("/session", cfg.Assistant.EndSession)
	assistantGroup.Post("/messages", cfg.Assistant.PostMessage)
	assistantGroup.Post("/escalation", cfg.Assistant.SubmitEscalation)
	assistantGroup.Delete("/escalation", cfg.Assistant.CancelEscalation)

	protected.Get("/tickets", cfg.Tickets.ListTickets)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)

	protected.Get("/notifications", cfg.Notifications.ListNotifications)
	protected.Post("/notifications/:id/read", cfg.Notifications.MarkRead)

	adminGroup := protected.Group("/admin", auth.RequireAdmin())
	adminGroup.Get("/tickets", cfg.Tickets.AdminListTickets)
	adminGroup.Patch("/tickets/:id", cfg.Tickets.AdminUpdateTicket)
}
