// Package pricing derives order totals from cart line items and an optional
// coupon. Everything here is pure.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/foodiehub/cart"
	"github.com/yeremiapane/foodiehub/coupon"
)

type Rules struct {
	BaseDeliveryFee   float64 `json:"baseDeliveryFee"`
	FreeDeliveryAbove float64 `json:"freeDeliveryAbove"`
	TaxRate           float64 `json:"taxRate"`
}

var DefaultRules = Rules{
	BaseDeliveryFee:   40,
	FreeDeliveryAbove: 500,
	TaxRate:           0.05,
}

type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`

	CouponCode     string        `json:"couponCode,omitempty"`
	CouponEligible bool          `json:"couponEligible"`
	CouponReason   coupon.Reason `json:"couponReason,omitempty"`
}

// Snapshot is the cartTotals hand-off written before checkout.
type Snapshot struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

func (t Totals) Snapshot() Snapshot {
	return Snapshot{
		Subtotal:    t.Subtotal,
		DeliveryFee: t.DeliveryFee,
		Tax:         t.Tax,
		Total:       t.Total,
	}
}

type Calculator struct {
	Rules Rules
}

func NewCalculator(r Rules) Calculator {
	return Calculator{Rules: r}
}

// ComputeTotals prices items with the default rules.
func ComputeTotals(items []cart.LineItem, d *coupon.Discount) Totals {
	return Calculator{Rules: DefaultRules}.Compute(items, d)
}

// Compute prices items. d may be nil. An empty cart is all zeros, whatever
// the coupon.
func (c Calculator) Compute(items []cart.LineItem, d *coupon.Discount) Totals {
	var out Totals
	if d != nil {
		out.CouponCode = d.Code
	}
	if len(items) == 0 {
		if d != nil {
			out.CouponReason = coupon.ReasonEmptyCart
		}
		return out
	}

	subtotal := lineSum(items, func(cart.LineItem) bool { return true })

	fee := decimal.Zero
	waived := d != nil && d.Kind == coupon.KindDeliveryWaiver &&
		subtotal.GreaterThanOrEqual(decimal.NewFromFloat(d.MinOrderValue))
	if !waived && !subtotal.GreaterThan(decimal.NewFromFloat(c.Rules.FreeDeliveryAbove)) {
		fee = decimal.NewFromFloat(c.Rules.BaseDeliveryFee)
	}

	tax := subtotal.Mul(decimal.NewFromFloat(c.Rules.TaxRate))

	discount := decimal.Zero
	if d != nil {
		switch d.Kind {
		case coupon.KindDeliveryWaiver:
			out.CouponEligible = waived
		case coupon.KindPercentageOff, coupon.KindCategoryRestricted:
			out.CouponEligible = subtotal.GreaterThanOrEqual(decimal.NewFromFloat(d.MinOrderValue))
			if out.CouponEligible {
				base := subtotal
				if d.Kind == coupon.KindCategoryRestricted {
					base = lineSum(items, inCategory(d.Category))
				}
				discount = percentOf(base, d.PercentOff, d.MaxDiscount)
			}
		}
		if !out.CouponEligible {
			out.CouponReason = coupon.ReasonBelowMinimum
		}
	}

	out.Subtotal = round2(subtotal)
	out.DeliveryFee = round2(fee)
	out.Tax = round2(tax)
	out.Discount = round2(discount)

	total := decimal.NewFromFloat(out.Subtotal).
		Add(decimal.NewFromFloat(out.DeliveryFee)).
		Add(decimal.NewFromFloat(out.Tax)).
		Sub(decimal.NewFromFloat(out.Discount))
	if total.IsNegative() {
		total = decimal.Zero
	}
	out.Total = round2(total)
	return out
}

// Ineligible records a coupon that is active but failed verification; no
// discount is priced in.
func (c Calculator) Ineligible(items []cart.LineItem, code string, reason coupon.Reason) Totals {
	t := c.Compute(items, nil)
	t.CouponCode = code
	t.CouponReason = reason
	return t
}

func lineSum(items []cart.LineItem, keep func(cart.LineItem) bool) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		if !keep(it) {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

func inCategory(category string) func(cart.LineItem) bool {
	return func(it cart.LineItem) bool {
		if strings.EqualFold(category, coupon.CategoryVeg) {
			return it.IsVeg
		}
		return it.Category != "" && strings.EqualFold(it.Category, category)
	}
}

// percentOf caps base*pct/100 at max. A non-positive max means no cap.
func percentOf(base decimal.Decimal, pct, max float64) decimal.Decimal {
	v := base.Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100))
	if max > 0 {
		v = decimal.Min(v, decimal.NewFromFloat(max))
	}
	return v
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// LineTotal is price x quantity rounded to 2 places.
func LineTotal(it cart.LineItem) float64 {
	return round2(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
}
