package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/feastbook/controllers"
	"github.com/meinhoongagan/feastbook/controllers/seller"
	"github.com/meinhoongagan/feastbook/middleware"
	"github.com/meinhoongagan/feastbook/models"
)

// SetupSellerRoutes configures service management and incoming bookings for sellers
func SetupSellerRoutes(app *fiber.App, deps *controllers.Deps, protected fiber.Handler) {
	h := seller.New(deps)
	group := app.Group("/seller", protected, middleware.RequireRole(models.RoleSeller))

	services := group.Group("/services")
	services.Get("/", h.ListServices)
	services.Post("/", h.CreateService)
	services.Put("/:id", h.UpdateService)
	services.Delete("/:id", h.DeleteService)

	bookings := group.Group("/bookings")
	bookings.Get("/", h.ListBookings)
	bookings.Post("/:id/confirm", h.ConfirmBooking)
	bookings.Post("/:id/cancel", h.CancelBooking)
	bookings.Post("/:id/complete", h.CompleteBooking)
}
