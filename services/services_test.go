package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/foodiehub/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	// checkout submits orders concurrently; sqlite wants a single writer
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Restaurant{}, &models.MenuItem{}, &models.Order{}, &models.SessionEntry{}))
	return db
}

func seedMenu(t *testing.T, db *gorm.DB) (models.Restaurant, []models.MenuItem) {
	r := models.Restaurant{Name: "Spice Route", Cuisine: "North Indian, Mughlai", IsOpen: true}
	require.NoError(t, db.Create(&r).Error)
	items := []models.MenuItem{
		{RestaurantID: r.ID, Name: "Chicken Biryani", Price: 200, IsAvailable: true},
		{RestaurantID: r.ID, Name: "Paneer Tikka", Price: 180, IsVeg: true, IsAvailable: true},
	}
	require.NoError(t, db.Create(&items).Error)
	return r, items
}
