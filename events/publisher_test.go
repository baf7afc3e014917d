package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/foodiehub/cart"
	"github.com/yeremiapane/foodiehub/pricing"
	"github.com/yeremiapane/foodiehub/services"
)

type fakeBroker struct {
	queue string
	msgs  []amqp.Publishing
	err   error
}

func (f *fakeBroker) Publish(ctx context.Context, queue string, msg amqp.Publishing) error {
	f.queue = queue
	f.msgs = append(f.msgs, msg)
	return f.err
}

func summary() services.OrderSummary {
	return services.OrderSummary{
		CheckoutID: "c-1",
		Items: []cart.LineItem{
			{ID: 1, Name: "Chicken Biryani", Price: 200, Quantity: 2, RestaurantID: 10},
		},
		Totals:      pricing.Totals{Subtotal: 400, DeliveryFee: 40, Tax: 20, Discount: 100, Total: 360, CouponCode: "SUMMER25", CouponEligible: true},
		UserDetails: services.CustomerDetails{Name: "alice", Email: "alice@example.com"},
		OrderIDs:    []uint{5},
		OrderDate:   time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublishOrderPlaced(t *testing.T) {
	b := &fakeBroker{}
	p := NewPublisher(b, "foodiehub.orders")

	require.NoError(t, p.PublishOrderPlaced(context.Background(), summary()))
	require.Len(t, b.msgs, 1)
	assert.Equal(t, "foodiehub.orders", b.queue)

	msg := b.msgs[0]
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, EventOrderPlaced, msg.Type)
	assert.Equal(t, "c-1", msg.MessageId)

	var ev OrderPlaced
	require.NoError(t, json.Unmarshal(msg.Body, &ev))
	assert.Equal(t, uint(10), ev.RestaurantID)
	assert.Equal(t, "SUMMER25", ev.CouponCode)
	assert.Equal(t, 360.0, ev.Total)
	require.Len(t, ev.Lines, 1)
	assert.Equal(t, 2, ev.Lines[0].Quantity)
}

func TestPublishOrderPlacedBrokerError(t *testing.T) {
	b := &fakeBroker{err: errors.New("channel closed")}
	err := NewPublisher(b, "q").PublishOrderPlaced(context.Background(), summary())
	assert.Error(t, err)
}

func TestNewOrderPlacedOmitsUnusedCoupon(t *testing.T) {
	s := summary()
	s.Totals.Discount = 0
	assert.Empty(t, NewOrderPlaced(s).CouponCode)
}
