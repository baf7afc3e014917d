package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/foodiehub/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrateAndSeed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:database_seed?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	// idempotent
	require.NoError(t, Migrate(db))

	require.NoError(t, Seed(db, "admin@foodiehub.local", "changeme123"))
	require.NoError(t, Seed(db, "admin@foodiehub.local", "changeme123"))

	var restaurants int64
	db.Model(&models.Restaurant{}).Count(&restaurants)
	assert.Equal(t, int64(3), restaurants)

	var closed models.Restaurant
	require.NoError(t, db.Where("name = ?", "Forno Napoli").First(&closed).Error)
	assert.False(t, closed.IsOpen)

	var items int64
	db.Model(&models.MenuItem{}).Where("restaurant_id = ?", closed.ID).Count(&items)
	assert.Equal(t, int64(3), items)

	var admins int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins)
	assert.Equal(t, int64(1), admins)
}
