// Package events publishes storefront events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/yeremiapane/foodiehub/services"
	"github.com/yeremiapane/foodiehub/utils"
)

const EventOrderPlaced = "order.placed"

// Broker is what the publisher needs from a channel pool.
type Broker interface {
	Publish(ctx context.Context, queue string, msg amqp.Publishing) error
}

type OrderPlacedLine struct {
	MenuItemID uint    `json:"menuItemId"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

type OrderPlaced struct {
	Event        string            `json:"event"`
	CheckoutID   string            `json:"checkoutId"`
	OrderIDs     []uint            `json:"orderIds"`
	RestaurantID uint              `json:"restaurantId"`
	UserName     string            `json:"userName"`
	UserEmail    string            `json:"userEmail"`
	Lines        []OrderPlacedLine `json:"lines"`
	CouponCode   string            `json:"couponCode,omitempty"`
	Discount     float64           `json:"discount"`
	Total        float64           `json:"total"`
	PlacedAt     time.Time         `json:"placedAt"`
}

func NewOrderPlaced(s services.OrderSummary) OrderPlaced {
	ev := OrderPlaced{
		Event:      EventOrderPlaced,
		CheckoutID: s.CheckoutID,
		OrderIDs:   s.OrderIDs,
		UserName:   s.UserDetails.Name,
		UserEmail:  s.UserDetails.Email,
		Discount:   s.Totals.Discount,
		Total:      s.Totals.Total,
		PlacedAt:   s.OrderDate,
	}
	if s.Totals.Discount > 0 {
		ev.CouponCode = s.Totals.CouponCode
	}
	for _, it := range s.Items {
		ev.RestaurantID = it.RestaurantID
		ev.Lines = append(ev.Lines, OrderPlacedLine{
			MenuItemID: it.ID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Price:      it.Price,
		})
	}
	return ev
}

type Publisher struct {
	broker    Broker
	queueName string
}

func NewPublisher(broker Broker, queueName string) *Publisher {
	return &Publisher{
		broker:    broker,
		queueName: queueName,
	}
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, summary services.OrderSummary) error {
	body, err := json.Marshal(NewOrderPlaced(summary))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.broker.Publish(ctx, p.queueName, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         EventOrderPlaced,
		MessageId:    summary.CheckoutID,
		Timestamp:    summary.OrderDate,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", EventOrderPlaced, err)
	}

	utils.InfoLogger.Printf("Published %s for checkout %s to %s", EventOrderPlaced, summary.CheckoutID, p.queueName)
	return nil
}
