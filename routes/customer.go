package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/feastbook/controllers"
	"github.com/meinhoongagan/feastbook/controllers/customer"
	"github.com/meinhoongagan/feastbook/middleware"
	"github.com/meinhoongagan/feastbook/models"
)

// SetupCustomerRoutes configures bookings, reviews and favorites for customers
func SetupCustomerRoutes(app *fiber.App, deps *controllers.Deps, protected fiber.Handler) {
	h := customer.New(deps)
	group := app.Group("/customer", protected, middleware.RequireRole(models.RoleCustomer))

	bookings := group.Group("/bookings")
	bookings.Post("/", h.CreateBooking)
	bookings.Get("/", h.ListBookings)
	bookings.Post("/:id/cancel", h.CancelBooking)
	bookings.Post("/:id/complete", h.CompleteBooking)
	bookings.Post("/:id/review", h.SubmitReview)

	favorites := group.Group("/favorites")
	favorites.Get("/", h.ListFavorites)
	favorites.Get("/ids", h.FavoriteIDs)
	favorites.Post("/:serviceID/toggle", h.ToggleFavorite)
}
