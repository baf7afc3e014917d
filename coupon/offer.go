// Package coupon holds the offer catalog and the per-session coupon ledger.
package coupon

import (
	"strings"
	"time"
)

type Kind string

const (
	KindPercentageOff      Kind = "percentage_off"
	KindDeliveryWaiver     Kind = "delivery_waiver"
	KindCategoryRestricted Kind = "category_restricted"
)

// CategoryVeg matches line items flagged vegetarian.
const CategoryVeg = "veg"

type Offer struct {
	Code           string         `json:"code"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Kind           Kind           `json:"kind"`
	PercentOff     float64        `json:"percentOff,omitempty"`
	MaxDiscount    float64        `json:"maxDiscount"`
	MinOrderValue  float64        `json:"minOrderValue"`
	FirstOrderOnly bool           `json:"firstOrderOnly"`
	Category       string         `json:"category,omitempty"`
	ValidDays      []time.Weekday `json:"validDays,omitempty"`
}

// Discount is what the total calculator needs from an applied coupon. It is
// cached under couponDiscount while the coupon is active.
type Discount struct {
	Code           string  `json:"code"`
	Kind           Kind    `json:"type"`
	PercentOff     float64 `json:"percentOff,omitempty"`
	MaxDiscount    float64 `json:"maxDiscount"`
	MinOrderValue  float64 `json:"minOrderValue"`
	Category       string  `json:"category,omitempty"`
	FirstOrderOnly bool    `json:"firstOrderOnly,omitempty"`
}

func (o Offer) Discount() Discount {
	return Discount{
		Code:           o.Code,
		Kind:           o.Kind,
		PercentOff:     o.PercentOff,
		MaxDiscount:    o.MaxDiscount,
		MinOrderValue:  o.MinOrderValue,
		Category:       o.Category,
		FirstOrderOnly: o.FirstOrderOnly,
	}
}

// ValidOn reports whether the offer can be applied on t's weekday.
func (o Offer) ValidOn(t time.Time) bool {
	if len(o.ValidDays) == 0 {
		return true
	}
	for _, d := range o.ValidDays {
		if t.Weekday() == d {
			return true
		}
	}
	return false
}

var catalog = []Offer{
	{
		Code:           "WELCOME50",
		Title:          "50% off your first order",
		Description:    "Flat 50% off up to ₹150 on your first order above ₹299",
		Kind:           KindPercentageOff,
		PercentOff:     50,
		MaxDiscount:    150,
		MinOrderValue:  299,
		FirstOrderOnly: true,
	},
	{
		Code:          "SUMMER25",
		Title:         "Summer special",
		Description:   "25% off up to ₹100 on orders above ₹199",
		Kind:          KindPercentageOff,
		PercentOff:    25,
		MaxDiscount:   100,
		MinOrderValue: 199,
	},
	{
		Code:          "FREEDEL",
		Title:         "Free delivery",
		Description:   "No delivery fee on orders above ₹199",
		Kind:          KindDeliveryWaiver,
		MaxDiscount:   40,
		MinOrderValue: 199,
	},
	{
		Code:          "WEEKEND30",
		Title:         "Weekend feast",
		Description:   "30% off up to ₹300 on weekend orders above ₹499",
		Kind:          KindPercentageOff,
		PercentOff:    30,
		MaxDiscount:   300,
		MinOrderValue: 499,
		ValidDays:     []time.Weekday{time.Saturday, time.Sunday},
	},
	{
		Code:          "VEGGIE20",
		Title:         "Go green",
		Description:   "20% off up to ₹120 on vegetarian dishes, orders above ₹249",
		Kind:          KindCategoryRestricted,
		PercentOff:    20,
		MaxDiscount:   120,
		MinOrderValue: 249,
		Category:      CategoryVeg,
	},
}

// Catalog returns a copy of the static offer list.
func Catalog() []Offer {
	out := make([]Offer, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(code string) (Offer, bool) {
	code = Normalize(code)
	for _, o := range catalog {
		if o.Code == code {
			return o, true
		}
	}
	return Offer{}, false
}

func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
