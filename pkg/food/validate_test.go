package food

import (
	"FoodShare-Backend/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestValidateTimes(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		cooked  time.Time
		expiry  time.Time
		wantErr error
	}{
		{"valid pair", now.Add(-2 * time.Hour), now.Add(time.Hour), nil},
		{"cooked exactly now", now, now.Add(time.Minute), nil},
		{"cooked in the future", now.Add(time.Hour), now.Add(2 * time.Hour), domain.ErrCookedTimeInFuture},
		{"expiry equals now", now.Add(-time.Hour), now, domain.ErrExpiryTimeNotFuture},
		{"expiry in the past", now.Add(-3 * time.Hour), now.Add(-time.Hour), domain.ErrExpiryTimeNotFuture},
		{"cooked checked before expiry", now.Add(2 * time.Hour), now.Add(time.Hour), domain.ErrCookedTimeInFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimes(tt.cooked, tt.expiry, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateTimes_Messages(t *testing.T) {
	assert.Equal(t, "Cooked time cannot be in the future", domain.ErrCookedTimeInFuture.Error())
	assert.Equal(t, "Expiry time must be in the future", domain.ErrExpiryTimeNotFuture.Error())
	assert.Equal(t, "Expiry time must be after cooked time", domain.ErrExpiryBeforeCooked.Error())
}

func TestParseFoodTime(t *testing.T) {
	want := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	for _, value := range []string{
		"2025-03-01T09:30:00Z",
		"2025-03-01T10:30:00+01:00",
		"2025-03-01T09:30:00",
		"2025-03-01T09:30",
		"  2025-03-01T09:30  ",
	} {
		got, err := ParseFoodTime(value)
		require.NoError(t, err, value)
		assert.True(t, want.Equal(got), "%q parsed as %s", value, got)
	}

	for _, value := range []string{"", "yesterday", "2025-03-01", "01/03/2025 09:30"} {
		_, err := ParseFoodTime(value)
		assert.ErrorIs(t, err, domain.ErrInvalidTimestamp, value)
	}
}
