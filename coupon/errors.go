package coupon

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCoupon    = errors.New("unknown coupon")
	ErrIneligibleCoupon = errors.New("coupon not applicable")
)

type Reason string

const (
	ReasonNotEligible   Reason = "not_eligible"
	ReasonCheckFailed   Reason = "check_failed"
	ReasonNotValidToday Reason = "not_valid_today"
	ReasonBelowMinimum  Reason = "below_minimum"
	ReasonEmptyCart     Reason = "empty_cart"
)

// IneligibleError matches ErrIneligibleCoupon. Err is set when the
// eligibility check itself failed.
type IneligibleError struct {
	Code   string
	Reason Reason
	Err    error
}

func (e *IneligibleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("coupon %s not applicable (%s): %v", e.Code, e.Reason, e.Err)
	}
	return fmt.Sprintf("coupon %s not applicable (%s)", e.Code, e.Reason)
}

func (e *IneligibleError) Is(target error) bool {
	return target == ErrIneligibleCoupon
}

func (e *IneligibleError) Unwrap() error {
	return e.Err
}
