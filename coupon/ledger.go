package coupon

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/foodiehub/storage"
	"github.com/yeremiapane/foodiehub/utils"
)

// Ledger tracks the saved coupons and the single active coupon of a session.
type Ledger struct {
	mu      sync.Mutex
	kv      storage.Store
	history OrderHistory
	now     func() time.Time

	saved    []string
	active   string
	discount *Discount
}

func NewLedger(kv storage.Store, history OrderHistory) *Ledger {
	return &Ledger{kv: kv, history: history, now: time.Now}
}

// WithClock overrides the clock used for weekday restrictions.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Load restores persisted state. Unknown codes and unreadable values are
// dropped.
func (l *Ledger) Load() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.saved = nil
	l.active = ""
	l.discount = nil

	var saved []string
	if _, err := storage.GetJSON(l.kv, storage.KeySavedCoupons, &saved); err != nil {
		utils.ErrorLogger.Printf("coupon: discarding saved coupons: %v", err)
		saved = nil
	}
	for _, code := range saved {
		if o, ok := Lookup(code); ok && !contains(l.saved, o.Code) {
			l.saved = append(l.saved, o.Code)
		}
	}

	raw, ok, err := l.kv.Get(storage.KeyActiveCoupon)
	if err != nil {
		utils.ErrorLogger.Printf("coupon: load active failed: %v", err)
		return
	}
	if !ok {
		return
	}
	offer, ok := Lookup(raw)
	if !ok {
		utils.ErrorLogger.Printf("coupon: dropping unknown active coupon %q", raw)
		return
	}
	// cached parameters always come from the catalog
	d := offer.Discount()
	l.active = offer.Code
	l.discount = &d
}

// Save bookmarks code. It reports true only when the code was not saved yet.
func (l *Ledger) Save(code string) (bool, error) {
	offer, ok := Lookup(code)
	if !ok {
		return false, ErrUnknownCoupon
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if contains(l.saved, offer.Code) {
		return false, nil
	}
	l.saved = append(l.saved, offer.Code)
	l.persistSaved()
	return true, nil
}

// Remove drops code from the saved list. If code is the active coupon it is
// deactivated in the same step.
func (l *Ledger) Remove(code string) bool {
	code = Normalize(code)

	l.mu.Lock()
	defer l.mu.Unlock()

	changed := false
	for i, c := range l.saved {
		if c == code {
			l.saved = append(l.saved[:i], l.saved[i+1:]...)
			changed = true
			break
		}
	}
	if changed {
		l.persistSaved()
	}
	if l.active != "" && l.active == code {
		l.active = ""
		l.discount = nil
		l.deleteKey(storage.KeyActiveCoupon)
		l.deleteKey(storage.KeyCouponDiscount)
		changed = true
	}
	return changed
}

// Apply makes code the active coupon, replacing any other. The first-order
// check runs without holding the lock; if ctx is done by the time it returns
// the result is dropped and the active coupon is left alone.
func (l *Ledger) Apply(ctx context.Context, code string, user User) (Discount, error) {
	offer, ok := Lookup(code)
	if !ok {
		return Discount{}, ErrUnknownCoupon
	}

	if err := l.checkOffer(ctx, offer, user); err != nil {
		return Discount{}, err
	}
	if err := ctx.Err(); err != nil {
		utils.InfoLogger.WithFields(logrus.Fields{
			"coupon": offer.Code,
			"user":   user.Name,
		}).Info("coupon: discarding stale eligibility result")
		return Discount{}, err
	}

	d := offer.Discount()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.active = offer.Code
	l.discount = &d
	if err := l.kv.Set(storage.KeyActiveCoupon, offer.Code); err != nil {
		utils.ErrorLogger.Printf("coupon: persist active failed: %v", err)
	}
	if err := storage.SetJSON(l.kv, storage.KeyCouponDiscount, d); err != nil {
		utils.ErrorLogger.Printf("coupon: persist discount failed: %v", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"coupon": offer.Code,
		"user":   user.Name,
	}).Info("coupon applied")
	return d, nil
}

// Verify re-runs the checks of the active coupon before it is priced into an
// order. It returns nil with no error when nothing is active. On failure the
// coupon stays active but must not be priced in.
func (l *Ledger) Verify(ctx context.Context, user User) (*Discount, error) {
	d, ok := l.Active()
	if !ok {
		return nil, nil
	}
	offer, ok := Lookup(d.Code)
	if !ok {
		return nil, ErrUnknownCoupon
	}
	if err := l.checkOffer(ctx, offer, user); err != nil {
		return nil, err
	}
	return &d, nil
}

func (l *Ledger) checkOffer(ctx context.Context, offer Offer, user User) error {
	if !offer.ValidOn(l.now()) {
		return l.reject(offer, user, ReasonNotValidToday, nil)
	}
	if !offer.FirstOrderOnly {
		return nil
	}

	result, err := FirstOrderEligibility(ctx, l.history, user)
	switch result {
	case Eligible:
		return nil
	case Ineligible:
		return l.reject(offer, user, ReasonNotEligible, nil)
	default:
		return l.reject(offer, user, ReasonCheckFailed, err)
	}
}

func (l *Ledger) reject(offer Offer, user User, reason Reason, err error) error {
	fields := logrus.Fields{
		"coupon": offer.Code,
		"user":   user.Name,
		"reason": reason,
	}
	if reason == ReasonCheckFailed {
		utils.ErrorLogger.WithFields(fields).WithError(err).Warn("coupon eligibility check failed, treating as ineligible")
	} else {
		utils.InfoLogger.WithFields(fields).Info("coupon rejected")
	}
	return &IneligibleError{Code: offer.Code, Reason: reason, Err: err}
}

// Active returns the active coupon's cached parameters.
func (l *Ledger) Active() (Discount, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active == "" || l.discount == nil {
		return Discount{}, false
	}
	return *l.discount, true
}

func (l *Ledger) Saved() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.saved))
	copy(out, l.saved)
	return out
}

func (l *Ledger) IsSaved(code string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return contains(l.saved, Normalize(code))
}

func (l *Ledger) persistSaved() {
	saved := l.saved
	if saved == nil {
		saved = []string{}
	}
	b, err := json.Marshal(saved)
	if err != nil {
		return
	}
	if err := l.kv.Set(storage.KeySavedCoupons, string(b)); err != nil {
		utils.ErrorLogger.Printf("coupon: persist saved failed: %v", err)
	}
}

func (l *Ledger) deleteKey(key string) {
	if err := l.kv.Delete(key); err != nil {
		utils.ErrorLogger.Printf("coupon: delete %s failed: %v", key, err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
