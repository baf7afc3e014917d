// Package storage persists per-session key/value state for the storefront.
package storage

import (
	"encoding/json"
	"time"
)

// Keys written by the cart, coupon ledger and checkout.
const (
	KeyCart           = "cart"
	KeySavedCoupons   = "savedCoupons"
	KeyActiveCoupon   = "activeCoupon"
	KeyCouponDiscount = "couponDiscount"
	KeyCartTotals     = "cartTotals"
	KeyOrderSummary   = "orderSummary"
)

// Store is the key/value view of one session.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Provider hands out a Store per session id.
type Provider interface {
	Scope(sessionID string) Store
}

// Purger is implemented by providers that can drop stale sessions. A session
// is stale when none of its entries was written at or after cutoff; its
// entries go together. Sessions listed in keep are never touched.
type Purger interface {
	Purge(cutoff time.Time, keep []string) (int64, error)
}

// GetJSON decodes key into v. found is false when the key is absent.
func GetJSON(s Store, key string, v interface{}) (found bool, err error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, err
	}
	return true, nil
}

func SetJSON(s Store, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, string(b))
}
