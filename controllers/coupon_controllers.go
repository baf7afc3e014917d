package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/foodiehub/coupon"
	"github.com/yeremiapane/foodiehub/services"
	"github.com/yeremiapane/foodiehub/utils"
)

type CouponController struct {
	Checkout *services.CheckoutService
}

func NewCouponController(checkout *services.CheckoutService) *CouponController {
	return &CouponController{Checkout: checkout}
}

type offerView struct {
	coupon.Offer
	Saved  bool `json:"saved"`
	Active bool `json:"active"`
}

// GetOffers lists the catalog. Without a session the saved/active flags are
// all false.
func (cc *CouponController) GetOffers(c *gin.Context) {
	offers := coupon.Catalog()
	views := make([]offerView, 0, len(offers))
	for _, o := range offers {
		views = append(views, offerView{Offer: o})
	}
	utils.RespondJSON(c, http.StatusOK, "Available offers", views)
}

func (cc *CouponController) GetCoupons(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	active, hasActive := sess.Coupons.Active()
	offers := coupon.Catalog()
	views := make([]offerView, 0, len(offers))
	for _, o := range offers {
		views = append(views, offerView{
			Offer:  o,
			Saved:  sess.Coupons.IsSaved(o.Code),
			Active: hasActive && active.Code == o.Code,
		})
	}

	data := gin.H{
		"saved":  sess.Coupons.Saved(),
		"offers": views,
		"active": nil,
	}
	if hasActive {
		data["active"] = active
	}
	utils.RespondJSON(c, http.StatusOK, "Coupons", data)
}

// SaveCoupon answers 201 for a new bookmark and 200 when it was saved already.
func (cc *CouponController) SaveCoupon(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	added, err := sess.Coupons.Save(body.Code)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	code, message := http.StatusOK, "Coupon already saved"
	if added {
		code, message = http.StatusCreated, "Coupon saved"
	}
	utils.RespondJSON(c, code, message, gin.H{
		"added": added,
		"saved": sess.Coupons.Saved(),
	})
}

func (cc *CouponController) RemoveCoupon(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	code := coupon.Normalize(c.Param("code"))
	if _, known := coupon.Lookup(code); !known {
		utils.RespondError(c, http.StatusNotFound, coupon.ErrUnknownCoupon)
		return
	}

	removed := sess.Coupons.Remove(code)
	utils.RespondJSON(c, http.StatusOK, "Coupon removed", gin.H{
		"removed": removed,
		"saved":   sess.Coupons.Saved(),
	})
}

func (cc *CouponController) ApplyCoupon(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	d, err := sess.Coupons.Apply(c.Request.Context(), c.Param("code"), sess.User())
	if err != nil {
		var ie *coupon.IneligibleError
		if errors.As(err, &ie) {
			// the customer sees the same answer whatever the reason
			utils.RespondErrorData(c, http.StatusUnprocessableEntity, errors.New("this coupon can't be applied to your order"), gin.H{
				"code": ie.Code,
			})
			return
		}
		if c.Request.Context().Err() != nil {
			utils.InfoLogger.WithFields(logrus.Fields{"session": sess.ID}).Info("coupon apply abandoned by client")
			return
		}
		respondCheckoutError(c, err)
		return
	}

	totals, err := cc.Checkout.Quote(c.Request.Context(), sess)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Coupon "+d.Code+" applied", gin.H{
		"discount": d,
		"totals":   totals,
	})
}
