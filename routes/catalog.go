package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/feastbook/controllers"
)

// SetupCatalogRoutes configures the public catalog
func SetupCatalogRoutes(app *fiber.App, deps *controllers.Deps) {
	h := &controllers.Catalog{Deps: deps}

	app.Get("/categories", h.Categories)

	services := app.Group("/services")
	services.Get("/", h.ListServices)
	services.Get("/:id", h.GetService)
	services.Get("/:id/reviews", h.ListReviews)
}
