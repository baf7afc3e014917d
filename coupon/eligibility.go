package coupon

import (
	"context"
	"strings"
)

type Eligibility int

const (
	Unknown Eligibility = iota
	Eligible
	Ineligible
)

func (e Eligibility) String() string {
	switch e {
	case Eligible:
		return "eligible"
	case Ineligible:
		return "ineligible"
	default:
		return "unknown"
	}
}

// User is the storefront customer as asserted by the identity provider.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderHistory counts a user's previous orders.
type OrderHistory interface {
	CountOrders(ctx context.Context, userName string) (int, error)
}

// FirstOrderEligibility is Eligible only when the history service confirms
// zero previous orders. A failed lookup is Unknown.
func FirstOrderEligibility(ctx context.Context, history OrderHistory, user User) (Eligibility, error) {
	if strings.TrimSpace(user.Name) == "" {
		return Ineligible, nil
	}
	if history == nil {
		return Unknown, nil
	}
	n, err := history.CountOrders(ctx, user.Name)
	if err != nil {
		return Unknown, err
	}
	if n == 0 {
		return Eligible, nil
	}
	return Ineligible, nil
}
