package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Favorite struct {
	ID         uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID        `json:"customer_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_customer_service"`
	ServiceID  uuid.UUID        `json:"service_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_customer_service"`
	Service    *CateringService `json:"catering_services,omitempty" gorm:"foreignKey:ServiceID"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
