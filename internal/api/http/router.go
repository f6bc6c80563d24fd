package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/afriroots/afriroots-api/internal/api/http/handlers"
	"github.com/afriroots/afriroots-api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Content        *handlers.ContentHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	content := app.Group("/content")
	content.Get("/", cfg.Content.List)
	content.Get("/:id", cfg.Content.Get)
	content.Post("/", cfg.AuthMiddleware.Handle, cfg.Content.Create)
}
