package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodiehub/cart"
	"github.com/yeremiapane/foodiehub/coupon"
	"github.com/yeremiapane/foodiehub/middlewares"
	"github.com/yeremiapane/foodiehub/models"
	"github.com/yeremiapane/foodiehub/services"
	"github.com/yeremiapane/foodiehub/utils"
	"gorm.io/gorm"
)

type CartController struct {
	DB       *gorm.DB
	Checkout *services.CheckoutService
}

func NewCartController(db *gorm.DB, checkout *services.CheckoutService) *CartController {
	return &CartController{DB: db, Checkout: checkout}
}

type addItemRequest struct {
	MenuItemID uint `json:"menuItemId" binding:"required"`
}

func (cc *CartController) GetCart(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	cc.respondCart(c, sess, http.StatusOK, "Cart")
}

// AddItem adds one unit of a menu item. A different restaurant yields 409;
// the client confirms with POST /api/cart/replace.
func (cc *CartController) AddItem(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	item, ok := cc.lineItem(c)
	if !ok {
		return
	}

	if _, err := sess.Cart.AddItem(item); err != nil {
		var conflict *cart.ConflictError
		if errors.As(err, &conflict) {
			utils.RespondErrorData(c, http.StatusConflict, err, gin.H{
				"cartRestaurantId": conflict.CartRestaurantID,
				"itemRestaurantId": conflict.ItemRestaurantID,
			})
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	cc.respondCart(c, sess, http.StatusOK, item.Name+" added to cart")
}

func (cc *CartController) ReplaceCart(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	item, ok := cc.lineItem(c)
	if !ok {
		return
	}

	sess.Cart.ClearAndAdd(item)
	utils.InfoLogger.Printf("session %s: cart replaced with restaurant %d", sess.ID, item.RestaurantID)
	cc.respondCart(c, sess, http.StatusOK, "Cart replaced")
}

func (cc *CartController) UpdateQuantity(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	var body struct {
		Action string `json:"action" binding:"required,oneof=increment decrement"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var found bool
	if body.Action == "increment" {
		_, found = sess.Cart.Increment(id)
	} else {
		_, found = sess.Cart.Decrement(id)
	}
	if !found {
		utils.RespondError(c, http.StatusNotFound, cart.ErrItemNotFound)
		return
	}
	cc.respondCart(c, sess, http.StatusOK, "Quantity updated")
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "item_id")
	if !ok {
		return
	}

	removal, found := sess.Cart.RemoveItem(id)
	if !found {
		utils.RespondError(c, http.StatusNotFound, cart.ErrItemNotFound)
		return
	}
	cc.respondCart(c, sess, http.StatusOK, removal.Message())
}

func (cc *CartController) ClearCart(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	sess.Cart.Clear()
	cc.respondCart(c, sess, http.StatusOK, "Cart cleared")
}

func (cc *CartController) GetTotals(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	totals, err := cc.Checkout.Quote(c.Request.Context(), sess)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart totals", totals)
}

func (cc *CartController) respondCart(c *gin.Context, sess *services.Session, code int, message string) {
	totals, err := cc.Checkout.Quote(c.Request.Context(), sess)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	utils.RespondJSON(c, code, message, gin.H{
		"items":        sess.Cart.Items(),
		"restaurantId": sess.Cart.RestaurantID(),
		"itemCount":    sess.Cart.ItemCount(),
		"totals":       totals,
	})
}

// lineItem builds the cart line from the catalog; the client only sends an id.
func (cc *CartController) lineItem(c *gin.Context) (cart.LineItem, bool) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return cart.LineItem{}, false
	}

	var item models.MenuItem
	if err := cc.DB.Preload("Restaurant").First(&item, req.MenuItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return cart.LineItem{}, false
	}
	if !item.IsAvailable {
		utils.RespondError(c, http.StatusUnprocessableEntity, errors.New(item.Name+" is currently unavailable"))
		return cart.LineItem{}, false
	}

	li := cart.LineItem{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		Price:        item.Price,
		IsVeg:        item.IsVeg,
		Category:     item.Category,
		RestaurantID: item.RestaurantID,
	}
	if item.Restaurant != nil {
		li.RestaurantName = item.Restaurant.Name
		li.RestaurantImage = item.Restaurant.ImageURL
	}
	return li, true
}

func session(c *gin.Context) (*services.Session, bool) {
	sess, ok := middlewares.CurrentSession(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("no active session"))
		return nil, false
	}
	return sess, true
}

func userFrom(name, email string) coupon.User {
	return coupon.User{Name: name, Email: email}
}

func respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyCart), errors.Is(err, services.ErrMissingDetails):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrOrderSubmission):
		utils.RespondError(c, http.StatusBadGateway, err)
	case errors.Is(err, coupon.ErrUnknownCoupon):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, coupon.ErrIneligibleCoupon):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
