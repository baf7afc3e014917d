package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/foodiehub/cart"
	"github.com/yeremiapane/foodiehub/coupon"
	"github.com/yeremiapane/foodiehub/kds"
	"github.com/yeremiapane/foodiehub/pricing"
	"github.com/yeremiapane/foodiehub/storage"
	"github.com/yeremiapane/foodiehub/utils"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMissingDetails  = errors.New("missing delivery details")
	ErrOrderSubmission = errors.New("order submission failed")
)

const DefaultPaymentMethod = "cod"

type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, req OrderRequest) (uint, error)
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, summary OrderSummary) error
}

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, summary OrderSummary) error
}

type CustomerDetails struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
}

func (d CustomerDetails) missing() []string {
	var out []string
	if strings.TrimSpace(d.Name) == "" {
		out = append(out, "name")
	}
	if strings.TrimSpace(d.Email) == "" || !strings.Contains(d.Email, "@") {
		out = append(out, "email")
	}
	if strings.TrimSpace(d.Phone) == "" {
		out = append(out, "phone")
	}
	if strings.TrimSpace(d.Address) == "" {
		out = append(out, "address")
	}
	return out
}

// OrderSummary is stored under orderSummary after a successful checkout.
type OrderSummary struct {
	CheckoutID    string          `json:"checkoutId"`
	Items         []cart.LineItem `json:"items"`
	Totals        pricing.Totals  `json:"totals"`
	PaymentMethod string          `json:"paymentMethod"`
	UserDetails   CustomerDetails `json:"userDetails"`
	OrderIDs      []uint          `json:"orderIds"`
	OrderDate     time.Time       `json:"orderDate"`
}

type CheckoutService struct {
	Orders     OrderSubmitter
	Calculator pricing.Calculator

	// optional
	Events   EventPublisher
	Notifier Notifier

	now func() time.Time
}

func NewCheckoutService(orders OrderSubmitter, calc pricing.Calculator) *CheckoutService {
	return &CheckoutService{Orders: orders, Calculator: calc, now: time.Now}
}

// Quote prices the session's cart. A first-order coupon is re-checked; if
// that fails the totals carry no discount and say why.
func (s *CheckoutService) Quote(ctx context.Context, sess *Session) (pricing.Totals, error) {
	items := sess.Cart.Items()

	d, err := sess.Coupons.Verify(ctx, sess.User())
	if err != nil {
		var ie *coupon.IneligibleError
		if errors.As(err, &ie) {
			return s.Calculator.Ineligible(items, ie.Code, ie.Reason), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return pricing.Totals{}, ctxErr
		}
		return pricing.Totals{}, err
	}
	return s.Calculator.Compute(items, d), nil
}

// Prepare quotes the cart and writes the cartTotals hand-off.
func (s *CheckoutService) Prepare(ctx context.Context, sess *Session) (pricing.Totals, error) {
	if sess.Cart.Len() == 0 {
		return pricing.Totals{}, ErrEmptyCart
	}
	totals, err := s.Quote(ctx, sess)
	if err != nil {
		return totals, err
	}
	if err := storage.SetJSON(sess.KV, storage.KeyCartTotals, totals.Snapshot()); err != nil {
		utils.ErrorLogger.Printf("checkout: persist cartTotals failed: %v", err)
	}
	return totals, nil
}

// PlaceOrder submits one order per cart line. If any submission fails the
// cart and totals are left as they were.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sess *Session, details CustomerDetails) (*OrderSummary, error) {
	sess.checkout.Lock()
	defer sess.checkout.Unlock()

	user := sess.User()
	if details.Name == "" {
		details.Name = user.Name
	}
	if details.Email == "" {
		details.Email = user.Email
	}
	if details.PaymentMethod == "" {
		details.PaymentMethod = DefaultPaymentMethod
	}
	if missing := details.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingDetails, strings.Join(missing, ", "))
	}

	items := sess.Cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	totals, err := s.Quote(ctx, sess)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			id, err := s.Orders.SubmitOrder(gctx, orderRequest(it, details))
			if err != nil {
				return fmt.Errorf("item %d (%s): %w", it.ID, it.Name, err)
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"session": sess.ID,
			"items":   len(items),
		}).WithError(err).Error("checkout failed")
		return nil, fmt.Errorf("%w: %w", ErrOrderSubmission, err)
	}

	summary := &OrderSummary{
		CheckoutID:    uuid.NewString(),
		Items:         items,
		Totals:        totals,
		PaymentMethod: details.PaymentMethod,
		UserDetails:   details,
		OrderIDs:      ids,
		OrderDate:     s.now(),
	}

	sess.Cart.Clear()
	if err := sess.KV.Delete(storage.KeyCartTotals); err != nil {
		utils.ErrorLogger.Printf("checkout: delete cartTotals failed: %v", err)
	}
	if err := storage.SetJSON(sess.KV, storage.KeyOrderSummary, summary); err != nil {
		utils.ErrorLogger.Printf("checkout: persist orderSummary failed: %v", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"session":  sess.ID,
		"checkout": summary.CheckoutID,
		"orders":   len(ids),
		"total":    totals.Total,
	}).Info("checkout placed")

	s.afterPlaced(ctx, *summary)
	return summary, nil
}

func (s *CheckoutService) afterPlaced(ctx context.Context, summary OrderSummary) {
	kds.BroadcastCheckout(summary)
	if s.Events != nil {
		if err := s.Events.PublishOrderPlaced(ctx, summary); err != nil {
			utils.ErrorLogger.Printf("checkout: publish %s failed: %v", summary.CheckoutID, err)
		}
	}
	if s.Notifier != nil {
		if err := s.Notifier.SendOrderConfirmation(ctx, summary); err != nil {
			utils.ErrorLogger.Printf("checkout: confirmation email for %s failed: %v", summary.CheckoutID, err)
		}
	}
}

// LastSummary returns the orderSummary of the latest checkout, if any.
func LastSummary(sess *Session) (*OrderSummary, bool) {
	var summary OrderSummary
	found, err := storage.GetJSON(sess.KV, storage.KeyOrderSummary, &summary)
	if err != nil || !found {
		return nil, false
	}
	return &summary, true
}

func orderRequest(it cart.LineItem, details CustomerDetails) OrderRequest {
	return OrderRequest{
		MenuItem:      MenuItemRef{ID: it.ID},
		UserName:      details.Name,
		UserEmail:     details.Email,
		Price:         pricing.LineTotal(it),
		Address:       details.Address,
		PhoneNumber:   details.Phone,
		PaymentMethod: details.PaymentMethod,
		DeliveryNotes: fmt.Sprintf("%d x %s", it.Quantity, it.Name),
	}
}
