package handlers

import (
	"FoodShare-Backend/domain"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var badRequestErrors = []error{
	domain.ErrCookedTimeInFuture,
	domain.ErrExpiryTimeNotFuture,
	domain.ErrExpiryBeforeCooked,
	domain.ErrInvalidTimestamp,
	domain.ErrInvalidFoodType,
	domain.ErrEmptyFoodName,
	domain.ErrEmptyPickupLocation,
	domain.ErrInvalidImageFormat,
	domain.ErrImageTooLarge,
	domain.ErrParseUUID,
	domain.ErrInvalidRole,
}

// statusFor maps service errors onto HTTP status codes. Anything unknown is a
// backend failure.
func statusFor(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrFoodItemNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorizedAccess), errors.Is(err, domain.ErrUserNotAllowed),
		errors.Is(err, domain.ErrImageNotOwned):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrFoodItemAlreadyClaimed), errors.Is(err, domain.ErrFoodItemExpired),
		errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrTokenInvalid):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrImageStorageDisabled):
		return fiber.StatusServiceUnavailable
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return fiber.StatusBadRequest
		}
	}
	return fiber.StatusInternalServerError
}
