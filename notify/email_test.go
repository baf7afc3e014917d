package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/foodiehub/cart"
	"github.com/yeremiapane/foodiehub/pricing"
	"github.com/yeremiapane/foodiehub/services"
)

type fakeSender struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (f *fakeSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status}, nil
}

func summary() services.OrderSummary {
	return services.OrderSummary{
		CheckoutID:    "c-1",
		Items:         []cart.LineItem{{ID: 1, Name: "Chicken Biryani", Price: 200, Quantity: 2}},
		Totals:        pricing.Totals{Subtotal: 400, DeliveryFee: 40, Tax: 20, Discount: 100, Total: 360, CouponCode: "SUMMER25"},
		PaymentMethod: "cod",
		UserDetails:   services.CustomerDetails{Name: "Alice", Email: "alice@example.com", Address: "12 MG Road"},
	}
}

func TestSendOrderConfirmation(t *testing.T) {
	f := &fakeSender{status: 202}
	n := NewEmailNotifierWithSender(f, "orders@foodiehub.local")

	require.NoError(t, n.SendOrderConfirmation(context.Background(), summary()))
	require.Len(t, f.sent, 1)

	msg := f.sent[0]
	assert.Equal(t, "orders@foodiehub.local", msg.From.Address)
	require.Len(t, msg.Personalizations, 1)
	assert.Equal(t, "alice@example.com", msg.Personalizations[0].To[0].Address)
	require.Len(t, msg.Content, 2)
	assert.Contains(t, msg.Content[0].Value, "2 x Chicken Biryani")
	assert.Contains(t, msg.Content[0].Value, "Discount (SUMMER25): -₹100.00")
	assert.Contains(t, msg.Content[0].Value, "Total: ₹360.00")
}

func TestSendOrderConfirmationFailures(t *testing.T) {
	n := NewEmailNotifierWithSender(&fakeSender{status: 401}, "orders@foodiehub.local")
	assert.Error(t, n.SendOrderConfirmation(context.Background(), summary()))

	n = NewEmailNotifierWithSender(&fakeSender{err: errors.New("dial tcp")}, "orders@foodiehub.local")
	assert.Error(t, n.SendOrderConfirmation(context.Background(), summary()))

	s := summary()
	s.UserDetails.Email = ""
	assert.Error(t, n.SendOrderConfirmation(context.Background(), s))
}
