package food

import (
	"FoodShare-Backend/domain"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04", // datetime-local
}

// ParseFoodTime accepts RFC 3339 or a datetime-local value, which is read as UTC.
func ParseFoodTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.ErrInvalidTimestamp
}

// ValidateTimes checks a cooked/expiry pair against a single sample of now.
func ValidateTimes(cooked, expiry, now time.Time) error {
	if cooked.After(now) {
		return domain.ErrCookedTimeInFuture
	}
	if !expiry.After(now) {
		return domain.ErrExpiryTimeNotFuture
	}
	if !expiry.After(cooked) {
		return domain.ErrExpiryBeforeCooked
	}
	return nil
}
