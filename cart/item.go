// Package cart holds the single-restaurant shopping cart of a storefront session.
package cart

import "errors"

var (
	// ErrCrossRestaurantConflict means the item belongs to another restaurant
	// than the one already in the cart. Use ClearAndAdd after the user confirms.
	ErrCrossRestaurantConflict = errors.New("cart already contains items from another restaurant")

	// ErrItemNotFound is returned by the HTTP layer when an increment,
	// decrement or remove names an id that is not in the cart.
	ErrItemNotFound = errors.New("item not in cart")
)

// LineItem is one menu item in the cart with its quantity. Price is the unit
// price; restaurant fields are copied from the item at add time.
type LineItem struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	Quantity        int     `json:"quantity"`
	IsVeg           bool    `json:"isVeg"`
	Category        string  `json:"category,omitempty"`
	RestaurantID    uint    `json:"restaurantId"`
	RestaurantName  string  `json:"restaurantName"`
	RestaurantImage string  `json:"restaurantImage"`
}

// Removal is returned by RemoveItem so callers can tell the user what went.
type Removal struct {
	Item LineItem `json:"item"`
}

func (r Removal) Message() string {
	return r.Item.Name + " removed from cart"
}

// ConflictError carries both restaurants of a rejected add.
type ConflictError struct {
	CartRestaurantID uint
	ItemRestaurantID uint
}

func (e *ConflictError) Error() string {
	return ErrCrossRestaurantConflict.Error()
}

func (e *ConflictError) Unwrap() error {
	return ErrCrossRestaurantConflict
}
