package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meinhoongagan/feastbook/models"
)

// GormStore implements Store on PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User, customer *models.Customer, seller *models.Seller) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("lower(email) = ?", strings.ToLower(user.Email)).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicate
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		switch user.Role {
		case models.RoleCustomer:
			if customer == nil {
				customer = &models.Customer{}
			}
			customer.ID = user.ID
			return tx.Create(customer).Error
		case models.RoleSeller:
			if seller == nil {
				seller = &models.Seller{}
			}
			seller.ID = user.ID
			return tx.Create(seller).Error
		}
		return nil
	})
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("lower(email) = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *GormStore) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *GormStore) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &customer, nil
}

func (s *GormStore) FindSeller(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	var seller models.Seller
	if err := s.db.WithContext(ctx).First(&seller, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &seller, nil
}

func (s *GormStore) ListServices(ctx context.Context, filter ServiceFilter) ([]models.CateringService, error) {
	query := s.db.WithContext(ctx).Preload("Seller")
	if filter.SellerID != uuid.Nil {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var services []models.CateringService
	if err := query.Order("created_at desc").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (s *GormStore) FindService(ctx context.Context, id uuid.UUID) (*models.CateringService, error) {
	var service models.CateringService
	if err := s.db.WithContext(ctx).Preload("Seller").First(&service, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &service, nil
}

func (s *GormStore) CreateService(ctx context.Context, service *models.CateringService) error {
	return s.db.WithContext(ctx).Create(service).Error
}

func (s *GormStore) UpdateService(ctx context.Context, sellerID, id uuid.UUID, update ServiceUpdate) (*models.CateringService, error) {
	var service models.CateringService
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND seller_id = ?", id, sellerID).
			First(&service).Error; err != nil {
			return notFound(err)
		}
		service.Title = update.Title
		service.Description = update.Description
		service.Price = update.Price
		service.Category = update.Category
		return tx.Model(&service).
			Select("title", "description", "price", "category", "updated_at").
			Updates(&service).Error
	})
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (s *GormStore) DeleteService(ctx context.Context, sellerID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var service models.CateringService
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND seller_id = ?", id, sellerID).
			First(&service).Error; err != nil {
			return notFound(err)
		}

		var bookings int64
		if err := tx.Model(&models.Booking{}).Where("service_id = ?", id).Count(&bookings).Error; err != nil {
			return err
		}
		if bookings > 0 {
			return ErrInUse
		}

		if err := tx.Where("service_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&service).Error
	})
}

func (s *GormStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return s.db.WithContext(ctx).Create(booking).Error
}

func (s *GormStore) ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	query := s.db.WithContext(ctx).
		Preload("Service").
		Preload("Seller").
		Preload("Customer").
		Preload("Review")
	if filter.CustomerID != uuid.Nil {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.SellerID != uuid.Nil {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var bookings []models.Booking
	if err := query.Order("booking_date desc").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// lockBooking selects the booking FOR UPDATE and attaches its review, if any.
// The review is loaded with a second query so the lock clause stays on the
// bookings row only.
func lockBooking(tx *gorm.DB, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}

	var reviews []models.Review
	if err := tx.Where("booking_id = ?", id).Limit(1).Find(&reviews).Error; err != nil {
		return nil, err
	}
	if len(reviews) > 0 {
		booking.Review = &reviews[0]
	}
	return &booking, nil
}

func (s *GormStore) TransitionBooking(ctx context.Context, id uuid.UUID, to models.BookingStatus, check BookingCheck) (*models.Booking, error) {
	var booking *models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = lockBooking(tx, id)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(booking); err != nil {
				return err
			}
		}
		if err := tx.Model(booking).Update("status", to).Error; err != nil {
			return err
		}
		booking.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *GormStore) ToggleFavorite(ctx context.Context, customerID, serviceID uuid.UUID) (bool, error) {
	var favorited bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("customer_id = ? AND service_id = ?", customerID, serviceID).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			favorited = false
			return nil
		}

		var services int64
		if err := tx.Model(&models.CateringService{}).Where("id = ?", serviceID).Count(&services).Error; err != nil {
			return err
		}
		if services == 0 {
			return ErrNotFound
		}
		if err := tx.Create(&models.Favorite{CustomerID: customerID, ServiceID: serviceID}).Error; err != nil {
			return err
		}
		favorited = true
		return nil
	})
	return favorited, err
}

func (s *GormStore) ListFavorites(ctx context.Context, customerID uuid.UUID) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Preload("Service.Seller").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

func (s *GormStore) CreateReview(ctx context.Context, review *models.Review, check BookingCheck) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, review.BookingID)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(booking); err != nil {
				return err
			}
		}
		if booking.Reviewed() {
			return ErrDuplicate
		}
		return tx.Create(review).Error
	})
}

func (s *GormStore) ListServiceReviews(ctx context.Context, serviceID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Joins("JOIN bookings ON bookings.id = reviews.booking_id").
		Where("bookings.service_id = ?", serviceID).
		Order("reviews.created_at desc").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
