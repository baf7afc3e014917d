package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodiehub/kds"
	"github.com/yeremiapane/foodiehub/models"
	"github.com/yeremiapane/foodiehub/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type topItem struct {
	MenuItemID uint    `json:"menuItemId"`
	Name       string  `json:"name"`
	Orders     int64   `gorm:"column:order_count" json:"orders"`
	Revenue    float64 `json:"revenue"`
}

// GetDashboardStats summarises orders for the admin panel.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	startOfDay := time.Now().Truncate(24 * time.Hour)

	var stats struct {
		TotalOrders      int64         `json:"total_orders"`
		TodayOrders      int64         `json:"today_orders"`
		TotalRevenue     float64       `json:"total_revenue"`
		TodayRevenue     float64       `json:"today_revenue"`
		Restaurants      int64         `json:"restaurants"`
		OpenRestaurants  int64         `json:"open_restaurants"`
		ByStatus         []statusCount `json:"by_status"`
		TopMenuItems     []topItem     `json:"top_menu_items"`
		LiveDashboards   int           `json:"live_dashboards"`
		FormattedRevenue string        `json:"formatted_revenue"`
	}

	db := ac.DB.WithContext(c.Request.Context())
	orders := func() *gorm.DB { return db.Model(&models.Order{}) }
	revenue := func() *gorm.DB {
		return orders().Where("status <> ?", models.OrderStatusCancelled).Select("COALESCE(SUM(price), 0)")
	}

	queries := []*gorm.DB{
		orders().Count(&stats.TotalOrders),
		orders().Where("order_date >= ?", startOfDay).Count(&stats.TodayOrders),
		revenue().Scan(&stats.TotalRevenue),
		revenue().Where("order_date >= ?", startOfDay).Scan(&stats.TodayRevenue),
		db.Model(&models.Restaurant{}).Count(&stats.Restaurants),
		db.Model(&models.Restaurant{}).Where("is_open = ?", true).Count(&stats.OpenRestaurants),
		orders().Select("status, COUNT(*) AS count").Group("status").Scan(&stats.ByStatus),
		db.Table("orders").
			Select("orders.menu_item_id, menu_items.name, COUNT(*) AS order_count, SUM(orders.price) AS revenue").
			Joins("JOIN menu_items ON menu_items.id = orders.menu_item_id").
			Where("orders.status <> ?", models.OrderStatusCancelled).
			Group("orders.menu_item_id, menu_items.name").
			Order("order_count DESC").
			Limit(5).
			Scan(&stats.TopMenuItems),
	}
	var err error
	for _, q := range queries {
		if q.Error != nil {
			err = q.Error
			break
		}
	}
	if err != nil {
		utils.ErrorLogger.Printf("dashboard stats: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	stats.LiveDashboards = kds.ClientCount()
	stats.FormattedRevenue = utils.FormatRupees(stats.TotalRevenue)
	if stats.ByStatus == nil {
		stats.ByStatus = []statusCount{}
	}
	if stats.TopMenuItems == nil {
		stats.TopMenuItems = []topItem{}
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
