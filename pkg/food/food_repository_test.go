package food

import (
	migration "FoodShare-Backend/cmd/database/migrate"
	"FoodShare-Backend/entities"
	"context"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"os"
	"sync"
	"testing"
	"time"
)

// setupTestDB starts PostgreSQL in a container and migrates the schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION not set")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		tcpostgres.WithDatabase("foodshare_test"),
		tcpostgres.WithUsername("foodshare"),
		tcpostgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role string) *entities.User {
	t.Helper()
	user := &entities.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@example.com",
		Password: "x",
		FullName: role,
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestFoodRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFoodRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	donor := createUser(t, db, "donor")
	receiver := createUser(t, db, "receiver")

	newItem := func(name string, expiry time.Time) *entities.FoodItem {
		item := &entities.FoodItem{
			ID:             uuid.New(),
			DonorID:        donor.ID,
			FoodName:       name,
			FoodType:       "Packaged",
			PickupLocation: "Gate 2",
			CookedTime:     now.Add(-time.Hour),
			ExpiryTime:     expiry,
		}
		require.NoError(t, repo.AddFoodItem(ctx, item))
		return item
	}

	first := newItem("Biscuits", now.Add(time.Hour))
	time.Sleep(10 * time.Millisecond)
	second := newItem("Crackers", now.Add(time.Hour))
	time.Sleep(10 * time.Millisecond)
	stale := newItem("Old Bread", now.Add(-time.Minute))

	t.Run("defaults and ordering", func(t *testing.T) {
		stored, err := repo.GetFoodItemByID(ctx, first.ID.String())
		require.NoError(t, err)
		assert.False(t, stored.Claimed)
		assert.Nil(t, stored.ClaimedBy)
		assert.False(t, stored.CreatedAt.IsZero())

		mine, err := repo.GetFoodItemsByDonor(ctx, donor.ID.String())
		require.NoError(t, err)
		require.Len(t, mine, 3)
		assert.Equal(t, stale.ID, mine[0].ID)
		assert.Equal(t, first.ID, mine[2].ID)
	})

	t.Run("conditional claim", func(t *testing.T) {
		ok, err := repo.ClaimFoodItem(ctx, stale.ID.String(), receiver.ID, now)
		require.NoError(t, err)
		assert.False(t, ok, "expired items cannot be claimed")

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := repo.ClaimFoodItem(ctx, second.ID.String(), receiver.ID, now)
				assert.NoError(t, err)
				if ok {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)

		stored, err := repo.GetFoodItemByID(ctx, second.ID.String())
		require.NoError(t, err)
		assert.True(t, stored.Claimed)
		require.NotNil(t, stored.ClaimedBy)
		assert.Equal(t, receiver.ID, *stored.ClaimedBy)
		require.NotNil(t, stored.ClaimedAt)

		unclaimed, err := repo.GetUnclaimedFoodItems(ctx)
		require.NoError(t, err)
		for _, item := range unclaimed {
			assert.NotEqual(t, second.ID, item.ID)
		}
	})

	t.Run("conditional delete", func(t *testing.T) {
		ok, err := repo.DeleteUnclaimedFoodItem(ctx, second.ID.String(), donor.ID.String())
		require.NoError(t, err)
		assert.False(t, ok, "claimed items stay")

		ok, err = repo.DeleteUnclaimedFoodItem(ctx, first.ID.String(), receiver.ID.String())
		require.NoError(t, err)
		assert.False(t, ok, "only the owner deletes")

		ok, err = repo.DeleteUnclaimedFoodItem(ctx, first.ID.String(), donor.ID.String())
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = repo.GetFoodItemByID(ctx, first.ID.String())
		assert.True(t, isNotFound(err))
	})
}
