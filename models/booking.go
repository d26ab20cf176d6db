package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// ParseBookingStatus rejects anything outside the four lifecycle states.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch st := BookingStatus(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// Terminal reports whether no transition leaves the status.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo checks the status graph only. Who may move a booking, and
// when, is decided by the policy package.
func (s BookingStatus) CanTransitionTo(next BookingStatus) error {
	switch s {
	case StatusPending:
		if next != StatusConfirmed && next != StatusCancelled {
			return fmt.Errorf("invalid transition from pending to %s", next)
		}
	case StatusConfirmed:
		if next != StatusCompleted && next != StatusCancelled {
			return fmt.Errorf("invalid transition from confirmed to %s", next)
		}
	case StatusCompleted, StatusCancelled:
		return fmt.Errorf("no transitions allowed from %s", s)
	default:
		return fmt.Errorf("unknown booking status %q", s)
	}
	return nil
}

type Booking struct {
	ID              uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	ServiceID       uuid.UUID        `json:"service_id" gorm:"type:uuid;not null;index"`
	Service         *CateringService `json:"catering_services,omitempty" gorm:"foreignKey:ServiceID"`
	CustomerID      uuid.UUID        `json:"customer_id" gorm:"type:uuid;not null;index"`
	Customer        *Customer        `json:"customers,omitempty" gorm:"foreignKey:CustomerID"`
	SellerID        uuid.UUID        `json:"seller_id" gorm:"type:uuid;not null;index"`
	Seller          *Seller          `json:"sellers,omitempty" gorm:"foreignKey:SellerID"`
	BookingDate     time.Time        `json:"booking_date" gorm:"not null"`
	SpecialRequests string           `json:"special_requests"`
	Status          BookingStatus    `json:"status" gorm:"type:varchar(16);not null;index"`
	Review          *Review          `json:"reviews,omitempty" gorm:"foreignKey:BookingID"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	return nil
}

// Reviewed reports whether a review already references the booking. The
// relation has to be preloaded for the answer to be meaningful.
func (b *Booking) Reviewed() bool {
	return b.Review != nil && b.Review.ID != uuid.Nil
}
