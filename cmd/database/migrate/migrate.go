package migration

import (
	"FoodShare-Backend/entities"
	"fmt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// ids default to uuid_generate_v4()
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";").Error; err != nil {
		return fmt.Errorf("create uuid-ossp extension: %w", err)
	}

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	if err := db.AutoMigrate(&entities.FoodItem{}); err != nil {
		return fmt.Errorf("migrate food items: %w", err)
	}
	return nil
}
