// Package policy holds the booking lifecycle gates: the lead-time rule for new
// bookings, who may move a booking between statuses and when, and when a
// review may be written. The gates are pure functions of the booking, the
// acting principal and the current time. Handlers use them to decide which
// actions to offer, and the repository re-runs them against the locked row
// before writing.
package policy

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meinhoongagan/feastbook/apperr"
	"github.com/meinhoongagan/feastbook/models"
)

// DefaultMinLeadTime is the minimum interval between now and the requested
// booking date.
const DefaultMinLeadTime = time.Hour

const (
	MsgDateRequired     = "Please select a booking date."
	MsgDateInPast       = "Booking date cannot be in the past."
	MsgNotCancellable   = "This booking can no longer be cancelled."
	MsgNotConfirmable   = "This booking can no longer be confirmed."
	MsgNotCompletable   = "This booking cannot be marked as finished yet."
	MsgNotReviewable    = "This booking cannot be reviewed."
	MsgInvalidRating    = "Please enter a number from 1 to 5."
	MsgBookingNotFound  = "Booking not found."
	MsgSellerOnly       = "Only the seller can confirm a booking."
	MsgUnsupportedState = "Unsupported status change."
)

// Actor is the authenticated principal performing an action.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// Policy carries the two tunables of the lifecycle: the lead time and the
// zone in which calendar days are compared.
type Policy struct {
	MinLeadTime time.Duration
	Location    *time.Location
}

// New returns a Policy, substituting DefaultMinLeadTime and UTC for zero
// values.
func New(minLeadTime time.Duration, loc *time.Location) *Policy {
	if minLeadTime <= 0 {
		minLeadTime = DefaultMinLeadTime
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Policy{MinLeadTime: minLeadTime, Location: loc}
}

// TooSoonMessage is the rejection shown when the date is inside the lead time.
func (p *Policy) TooSoonMessage() string {
	return fmt.Sprintf("Please book at least %s in advance.", describeDuration(p.MinLeadTime))
}

// ValidateBookingDate runs the date checks of booking creation in order:
// a date is present, it is not in the past, and it honours the lead time.
// The first failure is returned.
func (p *Policy) ValidateBookingDate(date *time.Time, now time.Time) error {
	if date == nil || date.IsZero() {
		return apperr.Validation(MsgDateRequired)
	}
	if date.Before(now) {
		return apperr.Validation(MsgDateInPast)
	}
	if date.Before(now.Add(p.MinLeadTime)) {
		return apperr.Validation(p.TooSoonMessage())
	}
	return nil
}

// startOfDay truncates t to midnight in the policy's zone.
func (p *Policy) startOfDay(t time.Time) time.Time {
	y, m, d := t.In(p.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.Location)
}

// DueOrPast reports whether the booking's calendar day is today or earlier.
// Time of day is ignored on both sides.
func (p *Policy) DueOrPast(date, now time.Time) bool {
	return !p.startOfDay(date).After(p.startOfDay(now))
}

// CustomerCanCancel: pending bookings always, confirmed bookings only while
// their day is still in the future. A confirmed booking for today has to be
// marked completed instead.
func (p *Policy) CustomerCanCancel(b *models.Booking, now time.Time) bool {
	switch b.Status {
	case models.StatusPending:
		return true
	case models.StatusConfirmed:
		return !p.DueOrPast(b.BookingDate, now)
	}
	return false
}

// CanComplete: confirmed and the booking day has arrived.
func (p *Policy) CanComplete(b *models.Booking, now time.Time) bool {
	return b.Status == models.StatusConfirmed && p.DueOrPast(b.BookingDate, now)
}

// CanReview: completed and no review references the booking yet.
func CanReview(b *models.Booking) bool {
	return b.Status == models.StatusCompleted && !b.Reviewed()
}

// owns reports whether the actor is the booking's customer or seller,
// according to the actor's role.
func owns(b *models.Booking, actor Actor) bool {
	switch actor.Role {
	case models.RoleCustomer:
		return b.CustomerID == actor.ID
	case models.RoleSeller:
		return b.SellerID == actor.ID
	}
	return false
}

// CheckTransition decides whether actor may move b to the target status now.
// Bookings the actor is not party to are reported as not found.
func (p *Policy) CheckTransition(b *models.Booking, actor Actor, to models.BookingStatus, now time.Time) error {
	if !owns(b, actor) {
		return apperr.NotFound(MsgBookingNotFound)
	}

	switch to {
	case models.StatusConfirmed:
		if actor.Role != models.RoleSeller {
			return apperr.Forbidden(MsgSellerOnly)
		}
		if b.Status != models.StatusPending {
			return apperr.Unavailable(MsgNotConfirmable)
		}
	case models.StatusCancelled:
		switch actor.Role {
		case models.RoleSeller:
			if b.Status != models.StatusPending && b.Status != models.StatusConfirmed {
				return apperr.Unavailable(MsgNotCancellable)
			}
		case models.RoleCustomer:
			if !p.CustomerCanCancel(b, now) {
				return apperr.Unavailable(MsgNotCancellable)
			}
		}
	case models.StatusCompleted:
		if !p.CanComplete(b, now) {
			return apperr.Unavailable(MsgNotCompletable)
		}
	default:
		return apperr.Validation(MsgUnsupportedState)
	}

	if err := b.Status.CanTransitionTo(to); err != nil {
		return apperr.Wrap(apperr.KindUnavailable, MsgUnsupportedState, err)
	}
	return nil
}

// ValidateRating checks the 1-5 scale.
func ValidateRating(rating int) error {
	if !models.ValidRating(rating) {
		return apperr.Validation(MsgInvalidRating)
	}
	return nil
}

// CheckReview decides whether actor may review b with the given rating.
// A review on a booking that is not eligible is invalid input.
func CheckReview(b *models.Booking, actor Actor, rating int) error {
	if err := ValidateRating(rating); err != nil {
		return err
	}
	if actor.Role != models.RoleCustomer || b.CustomerID != actor.ID {
		return apperr.NotFound(MsgBookingNotFound)
	}
	if !CanReview(b) {
		return apperr.Validation(MsgNotReviewable)
	}
	return nil
}

func describeDuration(d time.Duration) string {
	switch {
	case d%time.Hour == 0:
		if h := int(d / time.Hour); h != 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	case d%time.Minute == 0:
		if m := int(d / time.Minute); m != 1 {
			return fmt.Sprintf("%d minutes", m)
		}
		return "1 minute"
	}
	return d.String()
}
