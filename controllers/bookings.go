package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/meinhoongagan/feastbook/models"
	"github.com/meinhoongagan/feastbook/policy"
	"github.com/meinhoongagan/feastbook/repository"
)

// BookingView is a booking as listed to one party, with the actions that
// party may take on it right now.
type BookingView struct {
	models.Booking
	Actions policy.Actions `json:"actions"`
}

// ListBookingViews loads the actor's bookings, optionally narrowed to one
// status, and attaches the permitted actions.
func (d *Deps) ListBookingViews(ctx context.Context, actor policy.Actor, status models.BookingStatus) ([]BookingView, error) {
	filter := repository.BookingFilter{Status: status}
	switch actor.Role {
	case models.RoleCustomer:
		filter.CustomerID = actor.ID
	case models.RoleSeller:
		filter.SellerID = actor.ID
	default:
		return nil, nil
	}

	bookings, err := d.Store.ListBookings(ctx, filter)
	if err != nil {
		return nil, StoreError(err, policy.MsgBookingNotFound, "Could not load bookings.")
	}

	now := d.Clock()
	views := make([]BookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, BookingView{
			Booking: bookings[i],
			Actions: d.Policy.Actions(&bookings[i], actor.Role, now),
		})
	}
	return views, nil
}

// failureMessages is the generic message shown when storage fails during a
// transition.
var failureMessages = map[models.BookingStatus]string{
	models.StatusConfirmed: "Could not update booking.",
	models.StatusCancelled: "Could not cancel booking.",
	models.StatusCompleted: "Could not mark as finished.",
}

// Transition moves booking :id to the target status on behalf of the caller
// and answers with the caller's refreshed booking list.
func (d *Deps) Transition(c *fiber.Ctx, to models.BookingStatus) error {
	actor, err := Actor(c)
	if err != nil {
		return d.Fail(c, err)
	}
	id, err := ParamID(c, "id")
	if err != nil {
		return d.Fail(c, err)
	}

	ctx := c.UserContext()
	booking, err := d.transition(ctx, actor, id, to)
	if err != nil {
		return d.Fail(c, err)
	}

	views, err := d.ListBookingViews(ctx, actor, "")
	if err != nil {
		return d.Fail(c, err)
	}
	return c.JSON(fiber.Map{
		"booking":  booking,
		"bookings": views,
	})
}

func (d *Deps) transition(ctx context.Context, actor policy.Actor, id uuid.UUID, to models.BookingStatus) (*models.Booking, error) {
	now := d.Clock()
	booking, err := d.Store.TransitionBooking(ctx, id, to, func(b *models.Booking) error {
		return d.Policy.CheckTransition(b, actor, to, now)
	})
	if err != nil {
		msg, ok := failureMessages[to]
		if !ok {
			msg = "Could not update booking."
		}
		return nil, StoreError(err, policy.MsgBookingNotFound, msg)
	}
	return booking, nil
}
