package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryWedding   Category = "wedding"
	CategoryCorporate Category = "corporate"
	CategoryBirthday  Category = "birthday"
	CategoryCasual    Category = "casual"
)

// Categories lists the catalog filter values in display order.
var Categories = []Category{CategoryWedding, CategoryCorporate, CategoryBirthday, CategoryCasual}

// ParseCategory normalises "Wedding", "wedding" and " WEDDING " to the same
// stored value.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// CateringService is an offering owned by exactly one seller.
type CateringService struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SellerID    uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	Seller      *Seller   `json:"sellers,omitempty" gorm:"foreignKey:SellerID"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"type:numeric(10,2);not null"`
	Category    Category  `json:"category" gorm:"type:varchar(32);not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (CateringService) TableName() string {
	return "catering_services"
}

func (s *CateringService) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
