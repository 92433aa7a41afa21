package food

import (
	"FoodShare-Backend/entities"
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

type (
	FoodRepository interface {
		AddFoodItem(ctx context.Context, foodItem *entities.FoodItem) error
		GetFoodItemByID(ctx context.Context, id string) (*entities.FoodItem, error)
		GetFoodItemsByDonor(ctx context.Context, donorID string) ([]*entities.FoodItem, error)
		GetUnclaimedFoodItems(ctx context.Context) ([]*entities.FoodItem, error)
		// ClaimFoodItem marks the item claimed only if it is still unclaimed and
		// not expired at claimedAt. It reports whether a row was updated.
		ClaimFoodItem(ctx context.Context, id string, claimedBy uuid.UUID, claimedAt time.Time) (bool, error)
		// DeleteUnclaimedFoodItem removes the item only if it belongs to donorID
		// and is still unclaimed. It reports whether a row was deleted.
		DeleteUnclaimedFoodItem(ctx context.Context, id string, donorID string) (bool, error)
	}

	foodRepository struct {
		db *gorm.DB
	}
)

func NewFoodRepository(db *gorm.DB) FoodRepository {
	return &foodRepository{db: db}
}

func (r *foodRepository) AddFoodItem(ctx context.Context, foodItem *entities.FoodItem) error {
	return r.db.WithContext(ctx).Create(foodItem).Error
}

func (r *foodRepository) GetFoodItemByID(ctx context.Context, id string) (*entities.FoodItem, error) {
	var foodItem entities.FoodItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&foodItem).Error; err != nil {
		return nil, err
	}
	return &foodItem, nil
}

func (r *foodRepository) GetFoodItemsByDonor(ctx context.Context, donorID string) ([]*entities.FoodItem, error) {
	var foodItems []*entities.FoodItem

	if err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at desc").
		Find(&foodItems).Error; err != nil {
		return nil, err
	}

	return foodItems, nil
}

func (r *foodRepository) GetUnclaimedFoodItems(ctx context.Context) ([]*entities.FoodItem, error) {
	var foodItems []*entities.FoodItem

	if err := r.db.WithContext(ctx).
		Where("claimed = ?", false).
		Order("created_at desc").
		Find(&foodItems).Error; err != nil {
		return nil, err
	}

	return foodItems, nil
}

func (r *foodRepository) ClaimFoodItem(ctx context.Context, id string, claimedBy uuid.UUID, claimedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entities.FoodItem{}).
		Where("id = ? AND claimed = ? AND expiry_time > ?", id, false, claimedAt).
		Updates(map[string]interface{}{
			"claimed":    true,
			"claimed_by": claimedBy,
			"claimed_at": claimedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *foodRepository) DeleteUnclaimedFoodItem(ctx context.Context, id string, donorID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND donor_id = ? AND claimed = ?", id, donorID, false).
		Delete(&entities.FoodItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
