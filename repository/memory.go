package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meinhoongagan/feastbook/models"
)

// MemoryStore implements Store in process. A single mutex serialises every
// call, which gives TransitionBooking and CreateReview the same
// check-then-write atomicity the row lock gives GormStore.
type MemoryStore struct {
	mu  sync.Mutex
	now func() time.Time

	users     []*models.User
	customers map[uuid.UUID]*models.Customer
	sellers   map[uuid.UUID]*models.Seller
	services  []*models.CateringService
	bookings  []*models.Booking
	favorites []*models.Favorite
	reviews   []*models.Review
}

// NewMemoryStore returns an empty store. now stamps created_at and
// updated_at; nil means time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		now:       now,
		customers: make(map[uuid.UUID]*models.Customer),
		sellers:   make(map[uuid.UUID]*models.Seller),
	}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) CreateUser(_ context.Context, user *models.User, customer *models.Customer, seller *models.Seller) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = m.now()
	stored := *user
	m.users = append(m.users, &stored)

	switch user.Role {
	case models.RoleCustomer:
		if customer == nil {
			customer = &models.Customer{}
		}
		customer.ID = user.ID
		customer.CreatedAt = user.CreatedAt
		c := *customer
		m.customers[c.ID] = &c
	case models.RoleSeller:
		if seller == nil {
			seller = &models.Seller{}
		}
		seller.ID = user.ID
		seller.CreatedAt = user.CreatedAt
		s := *seller
		m.sellers[s.ID] = &s
	}
	return nil
}

func (m *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			found := *u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			found := *u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindCustomer(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	found := *c
	return &found, nil
}

func (m *MemoryStore) FindSeller(_ context.Context, id uuid.UUID) (*models.Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sellers[id]
	if !ok {
		return nil, ErrNotFound
	}
	found := *s
	return &found, nil
}

// expandService copies a service and attaches its seller. Callers hold mu.
func (m *MemoryStore) expandService(s *models.CateringService) models.CateringService {
	out := *s
	if seller, ok := m.sellers[s.SellerID]; ok {
		sc := *seller
		out.Seller = &sc
	}
	return out
}

func (m *MemoryStore) findService(id uuid.UUID) (int, *models.CateringService) {
	for i, s := range m.services {
		if s.ID == id {
			return i, s
		}
	}
	return -1, nil
}

func (m *MemoryStore) ListServices(_ context.Context, filter ServiceFilter) ([]models.CateringService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.CateringService
	for i := len(m.services) - 1; i >= 0; i-- {
		s := m.services[i]
		if filter.SellerID != uuid.Nil && s.SellerID != filter.SellerID {
			continue
		}
		if filter.Category != "" && s.Category != filter.Category {
			continue
		}
		out = append(out, m.expandService(s))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) FindService(_ context.Context, id uuid.UUID) (*models.CateringService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, s := m.findService(id)
	if s == nil {
		return nil, ErrNotFound
	}
	out := m.expandService(s)
	return &out, nil
}

func (m *MemoryStore) CreateService(_ context.Context, service *models.CateringService) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	now := m.now()
	service.CreatedAt, service.UpdatedAt = now, now
	stored := *service
	stored.Seller = nil
	m.services = append(m.services, &stored)
	return nil
}

func (m *MemoryStore) UpdateService(_ context.Context, sellerID, id uuid.UUID, update ServiceUpdate) (*models.CateringService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, s := m.findService(id)
	if s == nil || s.SellerID != sellerID {
		return nil, ErrNotFound
	}
	s.Title = update.Title
	s.Description = update.Description
	s.Price = update.Price
	s.Category = update.Category
	s.UpdatedAt = m.now()
	out := *s
	return &out, nil
}

func (m *MemoryStore) DeleteService(_ context.Context, sellerID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, s := m.findService(id)
	if s == nil || s.SellerID != sellerID {
		return ErrNotFound
	}
	for _, b := range m.bookings {
		if b.ServiceID == id {
			return ErrInUse
		}
	}

	kept := m.favorites[:0]
	for _, f := range m.favorites {
		if f.ServiceID != id {
			kept = append(kept, f)
		}
	}
	m.favorites = kept
	m.services = append(m.services[:i], m.services[i+1:]...)
	return nil
}

func (m *MemoryStore) CreateBooking(_ context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, s := m.findService(booking.ServiceID); s == nil {
		return ErrNotFound
	}
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.Status == "" {
		booking.Status = models.StatusPending
	}
	now := m.now()
	booking.CreatedAt, booking.UpdatedAt = now, now
	stored := *booking
	stored.Service, stored.Seller, stored.Customer, stored.Review = nil, nil, nil, nil
	m.bookings = append(m.bookings, &stored)
	return nil
}

func (m *MemoryStore) reviewFor(bookingID uuid.UUID) *models.Review {
	for _, r := range m.reviews {
		if r.BookingID == bookingID {
			rc := *r
			return &rc
		}
	}
	return nil
}

func (m *MemoryStore) findBooking(id uuid.UUID) *models.Booking {
	for _, b := range m.bookings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (m *MemoryStore) ListBookings(_ context.Context, filter BookingFilter) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Booking
	for _, b := range m.bookings {
		if filter.CustomerID != uuid.Nil && b.CustomerID != filter.CustomerID {
			continue
		}
		if filter.SellerID != uuid.Nil && b.SellerID != filter.SellerID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}

		bc := *b
		if _, s := m.findService(b.ServiceID); s != nil {
			sc := *s
			bc.Service = &sc
		}
		if s, ok := m.sellers[b.SellerID]; ok {
			sc := *s
			bc.Seller = &sc
		}
		if c, ok := m.customers[b.CustomerID]; ok {
			cc := *c
			bc.Customer = &cc
		}
		bc.Review = m.reviewFor(b.ID)
		out = append(out, bc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BookingDate.After(out[j].BookingDate)
	})
	return out, nil
}

func (m *MemoryStore) TransitionBooking(_ context.Context, id uuid.UUID, to models.BookingStatus, check BookingCheck) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.findBooking(id)
	if b == nil {
		return nil, ErrNotFound
	}
	current := *b
	current.Review = m.reviewFor(id)
	if check != nil {
		if err := check(&current); err != nil {
			return nil, err
		}
	}
	b.Status = to
	b.UpdatedAt = m.now()
	current.Status, current.UpdatedAt = b.Status, b.UpdatedAt
	return &current, nil
}

func (m *MemoryStore) ToggleFavorite(_ context.Context, customerID, serviceID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, f := range m.favorites {
		if f.CustomerID == customerID && f.ServiceID == serviceID {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			return false, nil
		}
	}
	if _, s := m.findService(serviceID); s == nil {
		return false, ErrNotFound
	}
	m.favorites = append(m.favorites, &models.Favorite{
		ID:         uuid.New(),
		CustomerID: customerID,
		ServiceID:  serviceID,
		CreatedAt:  m.now(),
	})
	return true, nil
}

func (m *MemoryStore) ListFavorites(_ context.Context, customerID uuid.UUID) ([]models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Favorite
	for i := len(m.favorites) - 1; i >= 0; i-- {
		f := m.favorites[i]
		if f.CustomerID != customerID {
			continue
		}
		fc := *f
		if _, s := m.findService(f.ServiceID); s != nil {
			sc := m.expandService(s)
			fc.Service = &sc
		}
		out = append(out, fc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) CreateReview(_ context.Context, review *models.Review, check BookingCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.findBooking(review.BookingID)
	if b == nil {
		return ErrNotFound
	}
	current := *b
	current.Review = m.reviewFor(b.ID)
	if check != nil {
		if err := check(&current); err != nil {
			return err
		}
	}
	if current.Reviewed() {
		return ErrDuplicate
	}

	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = m.now()
	stored := *review
	m.reviews = append(m.reviews, &stored)
	return nil
}

func (m *MemoryStore) ListServiceReviews(_ context.Context, serviceID uuid.UUID) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Review
	for i := len(m.reviews) - 1; i >= 0; i-- {
		r := m.reviews[i]
		if b := m.findBooking(r.BookingID); b != nil && b.ServiceID == serviceID {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
