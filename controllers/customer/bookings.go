package customer

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meinhoongagan/feastbook/apperr"
	"github.com/meinhoongagan/feastbook/controllers"
	"github.com/meinhoongagan/feastbook/models"
	"github.com/meinhoongagan/feastbook/policy"
	"github.com/meinhoongagan/feastbook/repository"
	"github.com/meinhoongagan/feastbook/utils"
)

// Handler serves the customer's bookings, reviews and favorites.
type Handler struct {
	*controllers.Deps
}

func New(deps *controllers.Deps) *Handler {
	return &Handler{Deps: deps}
}

type createBookingInput struct {
	ServiceID       string `json:"service_id"`
	BookingDate     string `json:"booking_date"`
	SpecialRequests string `json:"special_requests"`
}

// CreateBooking validates the date, resolves the customer profile and the
// service, then stores a pending booking.
// @Router /customer/bookings [post]
func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	actor, err := controllers.Actor(c)
	if err != nil {
		return h.Fail(c, err)
	}
	input := new(createBookingInput)
	if err := c.BodyParser(input); err != nil {
		return h.Fail(c, apperr.Validation(controllers.MsgInvalidJSON))
	}

	date, err := utils.ParseTimestamp(input.BookingDate)
	if err != nil {
		return h.Fail(c, apperr.Wrap(apperr.KindValidation, "Invalid booking date.", err))
	}
	if err := h.Policy.ValidateBookingDate(date, h.Clock()); err != nil {
		return h.Fail(c, err)
	}

	ctx := c.UserContext()
	customer, err := h.ResolveCustomer(ctx, actor.ID)
	if err != nil {
		return h.Fail(c, err)
	}

	serviceID, err := uuid.Parse(input.ServiceID)
	if err != nil {
		return h.Fail(c, apperr.NotFound(controllers.MsgServiceNotFound))
	}
	service, err := h.Store.FindService(ctx, serviceID)
	if err != nil {
		return h.Fail(c, controllers.StoreError(err, controllers.MsgServiceNotFound, "Could not store booking."))
	}

	booking := &models.Booking{
		ServiceID:       service.ID,
		CustomerID:      customer.ID,
		SellerID:        service.SellerID,
		BookingDate:     *date,
		SpecialRequests: strings.TrimSpace(input.SpecialRequests),
		Status:          models.StatusPending,
	}
	if err := h.Store.CreateBooking(ctx, booking); err != nil {
		return h.Fail(c, controllers.StoreError(err, controllers.MsgServiceNotFound, "Could not store booking."))
	}

	h.Log.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("service_id", service.ID.String()),
		zap.Time("booking_date", booking.BookingDate),
	)
	booking.Service = service
	return c.Status(fiber.StatusCreated).JSON(controllers.BookingView{
		Booking: *booking,
		Actions: h.Policy.Actions(booking, models.RoleCustomer, h.Clock()),
	})
}

// ListBookings is the customer's booking history, latest booking date first.
// @Router /customer/bookings [get]
func (h *Handler) ListBookings(c *fiber.Ctx) error {
	actor, err := controllers.Actor(c)
	if err != nil {
		return h.Fail(c, err)
	}
	views, err := h.ListBookingViews(c.UserContext(), actor, "")
	if err != nil {
		return h.Fail(c, err)
	}
	return c.JSON(views)
}

// @Router /customer/bookings/{id}/cancel [post]
func (h *Handler) CancelBooking(c *fiber.Ctx) error {
	return h.Transition(c, models.StatusCancelled)
}

// CompleteBooking marks a confirmed booking whose day has arrived as finished.
// @Router /customer/bookings/{id}/complete [post]
func (h *Handler) CompleteBooking(c *fiber.Ctx) error {
	return h.Transition(c, models.StatusCompleted)
}

type reviewInput struct {
	Rating  json.RawMessage `json:"rating"`
	Comment string          `json:"comment"`
}

// parseRating accepts a JSON number or a numeric string, since the rating is
// typed into a text field.
func parseRating(raw json.RawMessage) (int, error) {
	invalid := apperr.Validation(policy.MsgInvalidRating)
	if len(raw) == 0 {
		return 0, invalid
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, invalid
		}
		n = json.Number(strings.TrimSpace(s))
	}
	rating, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, invalid
	}
	return rating, policy.ValidateRating(rating)
}

// SubmitReview stores the single review a completed booking may receive and
// answers with the refreshed booking history.
// @Router /customer/bookings/{id}/review [post]
func (h *Handler) SubmitReview(c *fiber.Ctx) error {
	actor, err := controllers.Actor(c)
	if err != nil {
		return h.Fail(c, err)
	}
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		return h.Fail(c, err)
	}
	input := new(reviewInput)
	if err := c.BodyParser(input); err != nil {
		return h.Fail(c, apperr.Validation(policy.MsgInvalidRating))
	}
	rating, err := parseRating(input.Rating)
	if err != nil {
		return h.Fail(c, err)
	}

	ctx := c.UserContext()
	review := &models.Review{
		BookingID: id,
		Rating:    rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	err = h.Store.CreateReview(ctx, review, func(b *models.Booking) error {
		return policy.CheckReview(b, actor, rating)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			err = apperr.Validation(policy.MsgNotReviewable)
		}
		return h.Fail(c, controllers.StoreError(err, policy.MsgBookingNotFound, "Could not submit review."))
	}

	views, err := h.ListBookingViews(ctx, actor, "")
	if err != nil {
		return h.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"review":   review,
		"bookings": views,
	})
}
