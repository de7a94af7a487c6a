package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-portal/internal/api/http/handlers"
	"github.com/spec-kit/complaint-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/register", cfg.Auth.Register)
	api.Post("/login", cfg.Auth.Login)
	api.Post("/forget", cfg.Auth.ResetPassword)
	api.Post("/forget/request", cfg.Auth.RequestPasswordReset)
	api.Post("/forget/confirm", cfg.Auth.ConfirmPasswordReset)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/user", cfg.Auth.GetProfile)
	protected.Post("/create", cfg.Complaints.Create)
	protected.Get("/complaints", cfg.Complaints.List)
	protected.Put("/update-status", cfg.Complaints.UpdateStatus)
}
