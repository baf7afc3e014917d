package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodiehub/models"
	"github.com/yeremiapane/foodiehub/utils"
	"gorm.io/gorm"
)

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

type restaurantRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Cuisine      string  `json:"cuisine"`
	PriceRange   string  `json:"priceRange"`
	Rating       float64 `json:"rating" binding:"gte=0,lte=5"`
	ReviewCount  int     `json:"reviewCount"`
	DeliveryTime string  `json:"deliveryTime"`
	ImageURL     string  `json:"imageUrl"`
	Address      string  `json:"address"`
	PriceForTwo  float64 `json:"priceForTwo" binding:"gte=0"`
	IsVeg        bool    `json:"isVeg"`
	IsOpen       *bool   `json:"isOpen"`
}

func (r restaurantRequest) apply(m *models.Restaurant) {
	m.Name = r.Name
	m.Description = r.Description
	m.Cuisine = r.Cuisine
	m.PriceRange = r.PriceRange
	m.Rating = r.Rating
	m.ReviewCount = r.ReviewCount
	m.DeliveryTime = r.DeliveryTime
	m.ImageURL = r.ImageURL
	m.Address = r.Address
	m.PriceForTwo = r.PriceForTwo
	m.IsVeg = r.IsVeg
	if r.IsOpen != nil {
		m.IsOpen = *r.IsOpen
	}
}

// GetAllRestaurants supports ?cuisine=, ?veg=true, ?open=true, ?minRating=,
// ?maxPriceForTwo= and ?priceRange=.
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	q := rc.DB.Order("rating desc, id asc")

	if c.Query("veg") == "true" {
		q = q.Where("is_veg = ?", true)
	}
	if c.Query("open") == "true" {
		q = q.Where("is_open = ?", true)
	}
	if v := c.Query("priceRange"); v != "" {
		q = q.Where("price_range = ?", v)
	}
	if v := c.Query("minRating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid minRating"))
			return
		}
		q = q.Where("rating >= ?", f)
	}
	if v := c.Query("maxPriceForTwo"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid maxPriceForTwo"))
			return
		}
		q = q.Where("price_for_two <= ?", f)
	}

	var restaurants []models.Restaurant
	if err := q.Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if cuisine := strings.TrimSpace(c.Query("cuisine")); cuisine != "" {
		filtered := restaurants[:0]
		for _, r := range restaurants {
			if r.ServesCuisine(cuisine) {
				filtered = append(filtered, r)
			}
		}
		restaurants = filtered
	}

	if restaurants == nil {
		restaurants = []models.Restaurant{}
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

func (rc *RestaurantController) GetRestaurantByID(c *gin.Context) {
	restaurant, ok := rc.find(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// GetRestaurantMenu lists the available menu items of a restaurant.
func (rc *RestaurantController) GetRestaurantMenu(c *gin.Context) {
	restaurant, ok := rc.find(c)
	if !ok {
		return
	}

	q := rc.DB.Where("restaurant_id = ?", restaurant.ID)
	if c.Query("all") != "true" {
		q = q.Where("is_available = ?", true)
	}
	if c.Query("veg") == "true" {
		q = q.Where("is_veg = ?", true)
	}

	items := []models.MenuItem{}
	if err := q.Order("category asc, id asc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu of "+restaurant.Name, items)
}

func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var req restaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant := models.Restaurant{IsOpen: true}
	req.apply(&restaurant)
	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant created: %s (id=%d)", restaurant.Name, restaurant.ID)
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	restaurant, ok := rc.find(c)
	if !ok {
		return
	}

	var req restaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	req.apply(&restaurant)
	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	restaurant, ok := rc.find(c)
	if !ok {
		return
	}

	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&restaurant).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant deleted: %d", restaurant.ID)
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", nil)
}

func (rc *RestaurantController) find(c *gin.Context) (models.Restaurant, bool) {
	var restaurant models.Restaurant
	id, err := strconv.ParseUint(c.Param("restaurant_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return restaurant, false
	}
	if err := rc.DB.First(&restaurant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return restaurant, false
	}
	return restaurant, true
}
