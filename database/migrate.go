package database

import (
	"github.com/yeremiapane/foodiehub/models"
	"github.com/yeremiapane/foodiehub/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Order{},
		&models.SessionEntry{},
	)
	if err != nil {
		return err
	}

	// order history lookups for first-order coupons hit this on every apply
	if !db.Migrator().HasIndex(&models.Order{}, "idx_orders_user_status") {
		if err := db.Exec("CREATE INDEX idx_orders_user_status ON orders (user_name, status)").Error; err != nil {
			utils.ErrorLogger.Printf("Error creating idx_orders_user_status: %v", err)
		}
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
