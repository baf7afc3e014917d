package models

import "time"

type MenuItem struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	RestaurantID uint        `gorm:"not null;index" json:"restaurantId"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;references:ID" json:"restaurant,omitempty"`
	Name         string      `gorm:"type:varchar(255);not null" json:"name"`
	Description  string      `gorm:"type:text" json:"description"`
	Price        float64     `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL     string      `gorm:"type:varchar(512)" json:"imageUrl"`
	Category     string      `gorm:"type:varchar(100)" json:"category"`
	IsVeg        bool        `gorm:"default:false" json:"isVeg"`
	IsAvailable  bool        `json:"isAvailable"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
