package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Business       *handlers.BusinessHandler
	Tickets        *handlers.TicketsHandler
	Messages       *handlers.MessagesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Accounts.Register)
	app.Post("/auth/login", cfg.Accounts.Login)

	authed := app.Group("", cfg.AuthMiddleware.Handle)
	authed.Get("/auth/me", cfg.Accounts.Me)

	business := authed.Group("/business", auth.RequireRole(domain.RoleBusiness))
	business.Post("/profile", cfg.Business.CreateProfile)
	business.Get("/profile", cfg.Business.GetOwnProfile)
	business.Put("/profile", cfg.Business.UpdateProfile)
	business.Post("/invitations", cfg.Business.InviteEmployee)
	business.Get("/invitations", cfg.Business.ListBusinessInvitations)
	business.Get("/employees", cfg.Business.ListEmployees)
	business.Delete("/employees/:id", cfg.Business.DeactivateEmployee)

	authed.Get("/businesses/:id", cfg.Business.GetProfile)
	authed.Get("/businesses/:id/tickets",
		auth.RequireRole(domain.RoleBusiness, domain.RoleEmployee), cfg.Tickets.ListBusinessTickets)

	invitations := authed.Group("/invitations", auth.RequireRole(domain.RoleEmployee))
	invitations.Get("", cfg.Business.ListEmployeeInvitations)
	invitations.Post("/:id/resolve", cfg.Business.ResolveInvitation)

	tickets := authed.Group("/tickets")
	tickets.Post("", auth.RequireRole(domain.RoleCustomer), cfg.Tickets.CreateTicket)
	tickets.Get("", auth.RequireRole(domain.RoleCustomer), cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/claim",
		auth.RequireRole(domain.RoleBusiness, domain.RoleEmployee), cfg.Tickets.ClaimTicket)
	tickets.Post("/:id/escalate",
		auth.RequireRole(domain.RoleBusiness, domain.RoleEmployee), cfg.Tickets.EscalateTicket)
	tickets.Post("/:id/reassign",
		auth.RequireRole(domain.RoleBusiness, domain.RoleEmployee), cfg.Tickets.ReassignTicket)
	tickets.Post("/:id/resolve",
		auth.RequireRole(domain.RoleBusiness, domain.RoleEmployee), cfg.Tickets.ResolveTicket)
	tickets.Post("/:id/notes",
		auth.RequireRole(domain.RoleBusiness, domain.RoleEmployee), cfg.Tickets.AppendNote)
	tickets.Get("/:id/notes",
		auth.RequireRole(domain.RoleBusiness, domain.RoleEmployee), cfg.Tickets.ListNotes)
	tickets.Post("/:id/feedback",
		auth.RequireRole(domain.RoleCustomer), cfg.Tickets.SubmitFeedback)
	tickets.Get("/:id/feedback", cfg.Tickets.GetFeedback)

	messages := authed.Group("/messages")
	messages.Post("", cfg.Messages.SendMessage)
	messages.Get("/unread", cfg.Messages.UnreadCount)
	messages.Get("/with/:peer", cfg.Messages.ListConversation)
	messages.Post("/:id/ack", cfg.Messages.Acknowledge)
}
