package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/feastbook/controllers"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App, deps *controllers.Deps, protected fiber.Handler) {
	h := &controllers.Auth{Deps: deps}
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.RefreshToken)

	// Protected routes
	auth.Get("/me", protected, h.Me)
	auth.Post("/logout", protected, h.Logout)
}
