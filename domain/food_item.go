package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

type FoodType string

const (
	FoodTypeVegetarian    FoodType = "Vegetarian"
	FoodTypeNonVegetarian FoodType = "Non-Vegetarian"
	FoodTypePackaged      FoodType = "Packaged"

	// FilterAllTypes disables the food type filter.
	FilterAllTypes = "all"

	StatusAvailable    = "Available"
	StatusExpiringSoon = "Expiring soon"
	StatusExpired      = "Expired"
	StatusClaimed      = "Claimed"
)

var FoodTypes = []FoodType{FoodTypeVegetarian, FoodTypeNonVegetarian, FoodTypePackaged}

func (t FoodType) Valid() bool {
	for _, ft := range FoodTypes {
		if t == ft {
			return true
		}
	}
	return false
}

var (
	MessageSuccessAddFoodItem     = "food item added successfully"
	MessageSuccessDeleteFoodItem  = "food item deleted successfully"
	MessageSuccessClaimFoodItem   = "food claimed successfully"
	MessageSuccessGetFoodItems    = "food items retrieved successfully"
	MessageSuccessUploadFoodImage = "food image uploaded successfully"
	MessageSuccessGetFormDefaults = "form defaults retrieved successfully"

	MessageFailedAddFoodItem     = "failed to add food item"
	MessageFailedDeleteFoodItem  = "failed to delete the item"
	MessageFailedClaimFoodItem   = "failed to claim the food item"
	MessageFailedGetFoodItems    = "failed to load food items"
	MessageFailedUploadFoodImage = "failed to upload food image"
	MessageFailedStream          = "failed to open food item stream"

	ErrCookedTimeInFuture     = errors.New("Cooked time cannot be in the future")
	ErrExpiryTimeNotFuture    = errors.New("Expiry time must be in the future")
	ErrExpiryBeforeCooked     = errors.New("Expiry time must be after cooked time")
	ErrInvalidTimestamp       = errors.New("invalid timestamp")
	ErrInvalidFoodType        = errors.New("invalid food type")
	ErrEmptyFoodName          = errors.New("food name is required")
	ErrEmptyPickupLocation    = errors.New("pickup location is required")
	ErrFoodItemNotFound       = errors.New("food item not found")
	ErrFoodItemAlreadyClaimed = errors.New("food item already claimed")
	ErrFoodItemExpired        = errors.New("food item has expired")
	ErrUnauthorizedAccess     = errors.New("unauthorized access to food item")
	ErrInvalidImageFormat     = errors.New("invalid image format")
	ErrImageTooLarge          = errors.New("image exceeds size limit")
	ErrImageStorageDisabled   = errors.New("image storage is not configured")
	ErrImageNotOwned          = errors.New("image was uploaded by another donor")
)

type (
	CreateFoodItemRequest struct {
		FoodName       string `json:"food_name" validate:"required"`
		FoodType       string `json:"food_type" validate:"required,oneof=Vegetarian Non-Vegetarian Packaged"`
		PickupLocation string `json:"pickup_location" validate:"required"`
		CookedTime     string `json:"cooked_time" validate:"required"`
		ExpiryTime     string `json:"expiry_time" validate:"required"`
		ImageURL       string `json:"image_url" validate:"omitempty,url"`
	}

	UploadFoodImageRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	UploadFoodImageResponse struct {
		ImageURL string `json:"image_url"`
	}

	FoodItemForm struct {
		CookedTime time.Time  `json:"cooked_time"`
		ExpiryTime time.Time  `json:"expiry_time"`
		FoodTypes  []FoodType `json:"food_types"`
	}

	FoodItemResponse struct {
		ID             string     `json:"id"`
		DonorID        string     `json:"donor_id"`
		FoodName       string     `json:"food_name"`
		FoodType       FoodType   `json:"food_type"`
		PickupLocation string     `json:"pickup_location"`
		CookedTime     time.Time  `json:"cooked_time"`
		ExpiryTime     time.Time  `json:"expiry_time"`
		ImageURL       *string    `json:"image_url"`
		Claimed        bool       `json:"claimed"`
		ClaimedBy      *string    `json:"claimed_by"`
		ClaimedAt      *time.Time `json:"claimed_at"`
		CreatedAt      time.Time  `json:"created_at"`
	}

	// FoodCard is one item as presented to a particular view.
	FoodCard struct {
		FoodItemResponse
		DisplayImageURL  string `json:"display_image_url"`
		FallbackImageURL string `json:"fallback_image_url"`
		Expired          bool   `json:"expired"`
		ExpiringSoon     bool   `json:"expiring_soon"`
		Status           string `json:"status"`
		CanClaim         bool   `json:"can_claim"`
		CanDelete        bool   `json:"can_delete"`
	}

	CardOptions struct {
		AllowClaim  bool
		AllowDelete bool
	}

	FoodItemFilter struct {
		Search string `query:"search"`
		Type   string `query:"type"`
	}

	DonorDashboardResponse struct {
		Available      []FoodCard `json:"available"`
		Claimed        []FoodCard `json:"claimed"`
		AvailableCount int        `json:"available_count"`
		ClaimedCount   int        `json:"claimed_count"`
	}

	ReceiverDashboardResponse struct {
		Items  []FoodCard     `json:"items"`
		Count  int            `json:"count"`
		Filter FoodItemFilter `json:"filter"`
	}
)

// NewFoodItemForm pre-fills a plausible cooked/expiry pair: cooked an hour ago,
// expiring a day from now.
func NewFoodItemForm(now time.Time) FoodItemForm {
	return FoodItemForm{
		CookedTime: now.Add(-time.Hour),
		ExpiryTime: now.Add(24 * time.Hour),
		FoodTypes:  FoodTypes,
	}
}
