package seller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/feastbook/apperr"
	"github.com/meinhoongagan/feastbook/controllers"
	"github.com/meinhoongagan/feastbook/models"
)

// parseStatusFilter treats "" and "all" as no filter.
func parseStatusFilter(raw string) (models.BookingStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "all" {
		return "", nil
	}
	status, err := models.ParseBookingStatus(raw)
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, "Unknown status filter.", err)
	}
	return status, nil
}

// ListBookings returns bookings for the seller's services, latest booking
// date first, optionally narrowed by ?status=.
// @Router /seller/bookings [get]
func (h *Handler) ListBookings(c *fiber.Ctx) error {
	actor, err := controllers.Actor(c)
	if err != nil {
		return h.Fail(c, err)
	}
	status, err := parseStatusFilter(c.Query("status"))
	if err != nil {
		return h.Fail(c, err)
	}
	views, err := h.ListBookingViews(c.UserContext(), actor, status)
	if err != nil {
		return h.Fail(c, err)
	}
	return c.JSON(views)
}

// @Router /seller/bookings/{id}/confirm [post]
func (h *Handler) ConfirmBooking(c *fiber.Ctx) error {
	return h.Transition(c, models.StatusConfirmed)
}

// @Router /seller/bookings/{id}/cancel [post]
func (h *Handler) CancelBooking(c *fiber.Ctx) error {
	return h.Transition(c, models.StatusCancelled)
}

// @Router /seller/bookings/{id}/complete [post]
func (h *Handler) CompleteBooking(c *fiber.Ctx) error {
	return h.Transition(c, models.StatusCompleted)
}
