package entities

import (
	"github.com/google/uuid"
	"time"
)

type FoodItem struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonorID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"donor_id"`
	FoodName       string     `gorm:"not null" json:"food_name"`
	FoodType       string     `gorm:"not null" json:"food_type"` // "Vegetarian", "Non-Vegetarian", "Packaged"
	PickupLocation string     `gorm:"not null" json:"pickup_location"`
	CookedTime     time.Time  `gorm:"type:timestamp with time zone;not null" json:"cooked_time"`
	ExpiryTime     time.Time  `gorm:"type:timestamp with time zone;not null" json:"expiry_time"`
	ImageURL       *string    `json:"image_url"`
	Claimed        bool       `gorm:"not null;default:false;index" json:"claimed"`
	ClaimedBy      *uuid.UUID `gorm:"type:uuid" json:"claimed_by"`
	ClaimedAt      *time.Time `gorm:"type:timestamp with time zone" json:"claimed_at"`

	Donor *User `gorm:"foreignKey:DonorID" json:"-"`
	Timestamp
}
