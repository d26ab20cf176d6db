package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Customer is the profile of a user with RoleCustomer. It shares the user's id.
type Customer struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FullName      string    `json:"full_name"`
	Address       string    `json:"address"`
	ContactNumber string    `json:"contact_number"`
	CreatedAt     time.Time `json:"created_at"`
}

// Seller is the profile of a user with RoleSeller. It shares the user's id.
type Seller struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BusinessName  string    `json:"business_name"`
	Location      string    `json:"location"`
	Bio           string    `json:"bio"`
	ContactNumber string    `json:"contact_number"`
	CreatedAt     time.Time `json:"created_at"`
}
