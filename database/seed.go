package database

import (
	"github.com/yeremiapane/foodiehub/models"
	"github.com/yeremiapane/foodiehub/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedRestaurants = []models.Restaurant{
	{
		Name:         "Spice Route",
		Description:  "Slow-cooked biryanis and tandoor classics",
		Cuisine:      "North Indian, Mughlai, Biryani",
		PriceRange:   "$$",
		Rating:       4.4,
		ReviewCount:  1280,
		DeliveryTime: "30-35 min",
		Address:      "14 Residency Road, Bengaluru",
		PriceForTwo:  500,
		IsOpen:       true,
		MenuItems: []models.MenuItem{
			{Name: "Chicken Biryani", Description: "Dum-cooked basmati with spiced chicken", Price: 249, Category: "Biryani", IsAvailable: true},
			{Name: "Paneer Tikka", Description: "Char-grilled cottage cheese, mint chutney", Price: 199, Category: "Starters", IsVeg: true, IsAvailable: true},
			{Name: "Dal Makhani", Description: "Black lentils simmered overnight", Price: 179, Category: "Mains", IsVeg: true, IsAvailable: true},
			{Name: "Butter Naan", Price: 45, Category: "Breads", IsVeg: true, IsAvailable: true},
		},
	},
	{
		Name:         "Green Bowl",
		Description:  "Salads, bowls and smoothies",
		Cuisine:      "Healthy, Salads",
		PriceRange:   "$$",
		Rating:       4.2,
		ReviewCount:  640,
		DeliveryTime: "20-25 min",
		Address:      "3 Indiranagar 100ft Road, Bengaluru",
		PriceForTwo:  400,
		IsVeg:        true,
		IsOpen:       true,
		MenuItems: []models.MenuItem{
			{Name: "Quinoa Power Bowl", Price: 279, Category: "Bowls", IsVeg: true, IsAvailable: true},
			{Name: "Greek Salad", Price: 229, Category: "Salads", IsVeg: true, IsAvailable: true},
			{Name: "Mango Smoothie", Price: 149, Category: "Drinks", IsVeg: true, IsAvailable: true},
		},
	},
	{
		Name:         "Forno Napoli",
		Description:  "Wood-fired pizza",
		Cuisine:      "Italian, Pizza",
		PriceRange:   "$$$",
		Rating:       4.6,
		ReviewCount:  2210,
		DeliveryTime: "35-40 min",
		Address:      "22 Koramangala 5th Block, Bengaluru",
		PriceForTwo:  800,
		IsOpen:       false,
		MenuItems: []models.MenuItem{
			{Name: "Margherita", Price: 349, Category: "Pizza", IsVeg: true, IsAvailable: true},
			{Name: "Pepperoni", Price: 449, Category: "Pizza", IsAvailable: true},
			{Name: "Tiramisu", Price: 249, Category: "Desserts", IsVeg: true, IsAvailable: true},
		},
	},
}

// Seed fills an empty catalog with sample restaurants and, when adminEmail
// is set, creates that admin account.
func Seed(db *gorm.DB, adminEmail, adminPassword string) error {
	var count int64
	if err := db.Model(&models.Restaurant{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		restaurants := make([]models.Restaurant, len(seedRestaurants))
		copy(restaurants, seedRestaurants)
		for i := range restaurants {
			items := make([]models.MenuItem, len(restaurants[i].MenuItems))
			copy(items, restaurants[i].MenuItems)
			restaurants[i].MenuItems = items
		}
		if err := db.Create(&restaurants).Error; err != nil {
			return err
		}
		utils.InfoLogger.Printf("Seeded %d restaurants", len(restaurants))
	}

	if adminEmail == "" || adminPassword == "" {
		return nil
	}
	var admins int64
	db.Model(&models.User{}).Where("email = ?", adminEmail).Count(&admins)
	if admins > 0 {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{Name: "Administrator", Email: adminEmail, Password: string(hashed), Role: models.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded admin account %s", adminEmail)
	return nil
}
