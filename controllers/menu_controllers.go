package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodiehub/kds"
	"github.com/yeremiapane/foodiehub/models"
	"github.com/yeremiapane/foodiehub/utils"
	"gorm.io/gorm"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

type menuItemRequest struct {
	RestaurantID uint    `json:"restaurantId" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" binding:"gte=0"`
	ImageURL     string  `json:"imageUrl"`
	Category     string  `json:"category"`
	IsVeg        bool    `json:"isVeg"`
	IsAvailable  *bool   `json:"isAvailable"`
}

func (mc *MenuController) GetMenuItemByID(c *gin.Context) {
	item, ok := mc.find(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !mc.restaurantExists(c, req.RestaurantID) {
		return
	}

	item := models.MenuItem{IsAvailable: true}
	fill(&item, req)
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastMenuUpdate(item)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	item, ok := mc.find(c)
	if !ok {
		return
	}

	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !mc.restaurantExists(c, req.RestaurantID) {
		return
	}

	fill(&item, req)
	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastMenuUpdate(item)
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	item, ok := mc.find(c)
	if !ok {
		return
	}

	var orders int64
	mc.DB.Model(&models.Order{}).Where("menu_item_id = ?", item.ID).Count(&orders)
	if orders > 0 {
		// item yang sudah pernah dipesan hanya dinonaktifkan
		if err := mc.DB.Model(&item).Update("is_available", false).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Menu item has orders, marked unavailable", item)
		return
	}

	if err := mc.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", nil)
}

func fill(item *models.MenuItem, req menuItemRequest) {
	item.Restaurant = nil
	item.RestaurantID = req.RestaurantID
	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.ImageURL = req.ImageURL
	item.Category = req.Category
	item.IsVeg = req.IsVeg
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
}

func (mc *MenuController) restaurantExists(c *gin.Context, id uint) bool {
	var n int64
	if err := mc.DB.Model(&models.Restaurant{}).Where("id = ?", id).Count(&n).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return false
	}
	if n == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("restaurant not found"))
		return false
	}
	return true
}

func (mc *MenuController) find(c *gin.Context) (models.MenuItem, bool) {
	var item models.MenuItem
	id, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu id"))
		return item, false
	}
	if err := mc.DB.Preload("Restaurant").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return item, false
	}
	return item, true
}
