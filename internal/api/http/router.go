package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/resolveit/complaint-service/internal/api/http/handlers"
	"github.com/resolveit/complaint-service/internal/auth"
	"github.com/resolveit/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Users           *handlers.UsersHandler
	Complaints      *handlers.ComplaintsHandler
	StaffComplaints *handlers.StaffComplaintsHandler
	AuthMiddleware  *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	authProtected.Post("/password/change", cfg.Users.ChangePassword)
	authProtected.Get("/me", cfg.Users.Me)

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle, auth.RequireRole())
	complaints.Post("", cfg.Complaints.CreateComplaint)
	complaints.Get("", cfg.Complaints.ListComplaints)
	complaints.Get("/:id", cfg.Complaints.GetComplaint)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	staff.Get("/complaints", cfg.StaffComplaints.ListComplaints)
	staff.Get("/complaints/range", cfg.StaffComplaints.ListByDateRange)
	staff.Get("/complaints/:id", cfg.StaffComplaints.GetComplaint)
	staff.Patch("/complaints/:id/status", cfg.StaffComplaints.UpdateStatus)
	staff.Patch("/complaints/:id/assign", cfg.StaffComplaints.Assign)
	staff.Post("/complaints/:id/notes", cfg.StaffComplaints.AddNote)
	staff.Get("/complaints/:id/history", cfg.StaffComplaints.History)

	staff.Get("/stats/dashboard", cfg.StaffComplaints.Dashboard)
	staff.Get("/stats/categories", cfg.StaffComplaints.CategoryBreakdown)
	staff.Get("/stats/statuses", cfg.StaffComplaints.StatusBreakdown)
	staff.Get("/stats/priorities", cfg.StaffComplaints.PriorityBreakdown)
	staff.Get("/stats/status/:status", cfg.StaffComplaints.CountByStatus)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Delete("/complaints/:id", cfg.StaffComplaints.DeleteComplaint)
}
