package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodiehub/services"
	"github.com/yeremiapane/foodiehub/utils"
)

type CheckoutController struct {
	Checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{Checkout: checkout}
}

// Prepare snapshots the totals the checkout page shows.
func (cc *CheckoutController) Prepare(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	totals, err := cc.Checkout.Prepare(c.Request.Context(), sess)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checkout ready", gin.H{
		"items":  sess.Cart.Items(),
		"totals": totals,
		"user":   sess.User(),
	})
}

func (cc *CheckoutController) PlaceOrder(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var details services.CustomerDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	summary, err := cc.Checkout.PlaceOrder(c.Request.Context(), sess, details)
	if err != nil {
		if errors.Is(err, services.ErrOrderSubmission) {
			utils.RespondError(c, http.StatusBadGateway, errors.New("failed to place order, please try again"))
			return
		}
		respondCheckoutError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed successfully", summary)
}

func (cc *CheckoutController) GetSummary(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	summary, found := services.LastSummary(sess)
	if !found {
		utils.RespondError(c, http.StatusNotFound, errors.New("no order placed yet"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order summary", summary)
}
