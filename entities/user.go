package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	FullName string    `json:"full_name"`
	Role     string    `gorm:"not null" json:"role"` // "donor", "receiver"

	FoodItems []*FoodItem `gorm:"foreignKey:DonorID" json:"-"`
	Timestamp
}
