package models

import (
	"strings"
	"time"
)

type Restaurant struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	Cuisine      string     `gorm:"type:varchar(255)" json:"cuisine"`
	PriceRange   string     `gorm:"type:varchar(20)" json:"priceRange"`
	Rating       float64    `gorm:"type:decimal(3,1);default:0" json:"rating"`
	ReviewCount  int        `gorm:"default:0" json:"reviewCount"`
	DeliveryTime string     `gorm:"type:varchar(50)" json:"deliveryTime"`
	ImageURL     string     `gorm:"type:varchar(512)" json:"imageUrl"`
	Address      string     `gorm:"type:varchar(512)" json:"address"`
	PriceForTwo  float64    `gorm:"type:decimal(10,2);default:0" json:"priceForTwo"`
	IsVeg        bool       `gorm:"default:false" json:"isVeg"`
	IsOpen       bool       `json:"isOpen"`
	MenuItems    []MenuItem `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"menuItems,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Cuisines splits the comma separated cuisine column.
func (r *Restaurant) Cuisines() []string {
	var out []string
	for _, c := range strings.Split(r.Cuisine, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// ServesCuisine is a case-insensitive match against Cuisines.
func (r *Restaurant) ServesCuisine(cuisine string) bool {
	for _, c := range r.Cuisines() {
		if strings.EqualFold(c, strings.TrimSpace(cuisine)) {
			return true
		}
	}
	return false
}
