package dashboard

import (
	"FoodShare-Backend/domain"
	"FoodShare-Backend/pkg/realtime"
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

// mockFoodService covers the read side used by the views.
type mockFoodService struct {
	getDonorFoodItemsFn     func(ctx context.Context, session *domain.Session) ([]domain.FoodItemResponse, error)
	getAvailableFoodItemsFn func(ctx context.Context, session *domain.Session) ([]domain.FoodItemResponse, error)
}

func (m *mockFoodService) FormDefaults() domain.FoodItemForm { return domain.FoodItemForm{} }

func (m *mockFoodService) CreateFoodItem(context.Context, *domain.Session, domain.CreateFoodItemRequest) (domain.FoodItemResponse, error) {
	return domain.FoodItemResponse{}, nil
}

func (m *mockFoodService) UploadFoodImage(context.Context, *domain.Session, domain.UploadFoodImageRequest) (domain.UploadFoodImageResponse, error) {
	return domain.UploadFoodImageResponse{}, nil
}

func (m *mockFoodService) GetDonorFoodItems(ctx context.Context, session *domain.Session) ([]domain.FoodItemResponse, error) {
	if m.getDonorFoodItemsFn != nil {
		return m.getDonorFoodItemsFn(ctx, session)
	}
	return nil, nil
}

func (m *mockFoodService) GetAvailableFoodItems(ctx context.Context, session *domain.Session) ([]domain.FoodItemResponse, error) {
	if m.getAvailableFoodItemsFn != nil {
		return m.getAvailableFoodItemsFn(ctx, session)
	}
	return nil, nil
}

func (m *mockFoodService) ClaimFoodItem(context.Context, *domain.Session, string) (domain.FoodItemResponse, error) {
	return domain.FoodItemResponse{}, nil
}

func (m *mockFoodService) DeleteFoodItem(context.Context, *domain.Session, string) error {
	return nil
}

var (
	testNow      = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	donorSession = &domain.Session{UserID: "donor-1", Role: domain.RoleDonor}
	recvSession  = &domain.Session{UserID: "receiver-1", Role: domain.RoleReceiver}
)

func item(id, name, location string, foodType domain.FoodType, expiry time.Duration, claimed bool) domain.FoodItemResponse {
	res := domain.FoodItemResponse{
		ID:             id,
		DonorID:        donorSession.UserID,
		FoodName:       name,
		FoodType:       foodType,
		PickupLocation: location,
		CookedTime:     testNow.Add(-time.Hour),
		ExpiryTime:     testNow.Add(expiry),
		Claimed:        claimed,
	}
	if claimed {
		by := recvSession.UserID
		at := testNow
		res.ClaimedBy = &by
		res.ClaimedAt = &at
	}
	return res
}

func TestDonor_Snapshot(t *testing.T) {
	fs := &mockFoodService{
		getDonorFoodItemsFn: func(_ context.Context, session *domain.Session) ([]domain.FoodItemResponse, error) {
			assert.Equal(t, donorSession, session)
			return []domain.FoodItemResponse{
				item("3", "Roti", "Hall", domain.FoodTypeVegetarian, 2*time.Hour, false),
				item("2", "Curry", "Hall", domain.FoodTypeNonVegetarian, 2*time.Hour, true),
				item("1", "Chips", "Gate", domain.FoodTypePackaged, -time.Hour, false),
			}, nil
		},
	}
	donor := NewDonor(fs)
	donor.now = func() time.Time { return testNow }

	res, err := donor.Snapshot(context.Background(), donorSession)
	require.NoError(t, err)

	assert.Equal(t, 2, res.AvailableCount)
	assert.Equal(t, 1, res.ClaimedCount)
	assert.Equal(t, "3", res.Available[0].ID)
	assert.Equal(t, "1", res.Available[1].ID)
	assert.Equal(t, "2", res.Claimed[0].ID)

	for _, card := range res.Available {
		assert.True(t, card.CanDelete)
		assert.False(t, card.CanClaim)
	}
	assert.False(t, res.Claimed[0].CanDelete)
	assert.Equal(t, domain.StatusExpired, res.Available[1].Status)
}

func TestDonor_Snapshot_NoSession(t *testing.T) {
	called := false
	donor := NewDonor(&mockFoodService{
		getDonorFoodItemsFn: func(context.Context, *domain.Session) ([]domain.FoodItemResponse, error) {
			called = true
			return nil, nil
		},
	})

	res, err := donor.Snapshot(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, called)
	assert.NotNil(t, res.Available)
	assert.NotNil(t, res.Claimed)
}

func TestDonor_Snapshot_Error(t *testing.T) {
	donor := NewDonor(&mockFoodService{
		getDonorFoodItemsFn: func(context.Context, *domain.Session) ([]domain.FoodItemResponse, error) {
			return nil, errors.New("backend down")
		},
	})

	_, err := donor.Snapshot(context.Background(), donorSession)
	assert.EqualError(t, err, "backend down")
}

func TestReceiver_Snapshot(t *testing.T) {
	fs := &mockFoodService{
		getAvailableFoodItemsFn: func(context.Context, *domain.Session) ([]domain.FoodItemResponse, error) {
			return []domain.FoodItemResponse{
				item("1", "Vegetable Biryani", "Koramangala", domain.FoodTypeVegetarian, 3*time.Hour, false),
				item("2", "Chicken Curry", "Indiranagar", domain.FoodTypeNonVegetarian, 30*time.Hour, false),
				item("3", "Old Bread", "Koramangala", domain.FoodTypePackaged, -time.Minute, false),
			}, nil
		},
	}
	receiver := NewReceiver(fs)
	receiver.now = func() time.Time { return testNow }

	t.Run("defaults to all types", func(t *testing.T) {
		res, err := receiver.Snapshot(context.Background(), recvSession, domain.FoodItemFilter{})
		require.NoError(t, err)
		assert.Equal(t, domain.FilterAllTypes, res.Filter.Type)
		assert.Equal(t, 3, res.Count)

		assert.True(t, res.Items[0].CanClaim)
		assert.True(t, res.Items[0].ExpiringSoon)
		assert.False(t, res.Items[1].ExpiringSoon)
		assert.False(t, res.Items[2].CanClaim)
		for _, card := range res.Items {
			assert.False(t, card.CanDelete)
		}
	})

	t.Run("search by location", func(t *testing.T) {
		res, err := receiver.Snapshot(context.Background(), recvSession, domain.FoodItemFilter{Search: "koramangala"})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Count)
	})

	t.Run("type filter", func(t *testing.T) {
		res, err := receiver.Snapshot(context.Background(), recvSession, domain.FoodItemFilter{Type: "Non-Vegetarian"})
		require.NoError(t, err)
		require.Equal(t, 1, res.Count)
		assert.Equal(t, "2", res.Items[0].ID)
	})

	t.Run("no match shows zero", func(t *testing.T) {
		res, err := receiver.Snapshot(context.Background(), recvSession, domain.FoodItemFilter{Search: "pizza"})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Count)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})
}

func TestViewPredicates(t *testing.T) {
	donor := NewDonor(&mockFoodService{})
	receiver := NewReceiver(&mockFoodService{})

	own := realtime.ChangeEvent{Type: realtime.ChangeInsert, DonorID: donorSession.UserID}
	other := realtime.ChangeEvent{Type: realtime.ChangeUpdate, DonorID: "someone-else"}

	dv := donor.For(donorSession).Predicate()
	assert.True(t, dv(own))
	assert.False(t, dv(other))

	assert.False(t, donor.For(nil).Predicate()(own))

	rv := receiver.For(recvSession, domain.FoodItemFilter{}).Predicate()
	assert.True(t, rv(own))
	assert.True(t, rv(other))
}
