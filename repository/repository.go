// Package repository is the data-access boundary. Every table the app uses is
// reached through these interfaces; GormStore backs them with PostgreSQL and
// MemoryStore keeps everything in process.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/meinhoongagan/feastbook/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	// ErrInUse is returned when deleting a service that bookings reference.
	ErrInUse = errors.New("record is referenced")
)

// ServiceFilter narrows the catalog. Zero fields do not filter.
type ServiceFilter struct {
	SellerID uuid.UUID
	Category models.Category
}

// BookingFilter narrows a booking list. Zero fields do not filter.
type BookingFilter struct {
	CustomerID uuid.UUID
	SellerID   uuid.UUID
	Status     models.BookingStatus
}

// ServiceUpdate replaces the editable fields of a service.
type ServiceUpdate struct {
	Title       string
	Description string
	Price       float64
	Category    models.Category
}

// BookingCheck is run against the locked booking row before a write. A
// non-nil error aborts the write and is returned unchanged.
type BookingCheck func(b *models.Booking) error

type UserRepository interface {
	// CreateUser stores the user together with exactly one of the two
	// profiles, matching the user's role.
	CreateUser(ctx context.Context, user *models.User, customer *models.Customer, seller *models.Seller) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindSeller(ctx context.Context, id uuid.UUID) (*models.Seller, error)
}

type CatalogRepository interface {
	// ListServices returns services newest first with the seller expanded.
	ListServices(ctx context.Context, filter ServiceFilter) ([]models.CateringService, error)
	FindService(ctx context.Context, id uuid.UUID) (*models.CateringService, error)
	CreateService(ctx context.Context, service *models.CateringService) error
	// UpdateService and DeleteService only touch services owned by sellerID;
	// anything else is ErrNotFound.
	UpdateService(ctx context.Context, sellerID, id uuid.UUID, update ServiceUpdate) (*models.CateringService, error)
	DeleteService(ctx context.Context, sellerID, id uuid.UUID) error
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	// ListBookings returns bookings by descending booking date with service,
	// seller, customer and review expanded.
	ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	// TransitionBooking locks the booking, runs check on it and, if the check
	// passes, sets the new status.
	TransitionBooking(ctx context.Context, id uuid.UUID, to models.BookingStatus, check BookingCheck) (*models.Booking, error)
}

type FavoriteRepository interface {
	// ToggleFavorite removes the pair if present and inserts it otherwise. It
	// reports whether the pair exists afterwards.
	ToggleFavorite(ctx context.Context, customerID, serviceID uuid.UUID) (bool, error)
	// ListFavorites returns newest first with service and seller expanded.
	ListFavorites(ctx context.Context, customerID uuid.UUID) ([]models.Favorite, error)
}

type ReviewRepository interface {
	// CreateReview locks the referenced booking, loads whether it already has
	// a review, runs check and inserts the review.
	CreateReview(ctx context.Context, review *models.Review, check BookingCheck) error
	ListServiceReviews(ctx context.Context, serviceID uuid.UUID) ([]models.Review, error)
}

// Store is everything the handlers need from storage.
type Store interface {
	UserRepository
	CatalogRepository
	BookingRepository
	FavoriteRepository
	ReviewRepository
}
