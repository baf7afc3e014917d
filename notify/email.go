// Package notify sends order confirmation emails through SendGrid or
// Postmark.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/yeremiapane/foodiehub/services"
	"github.com/yeremiapane/foodiehub/utils"
)

const confirmationSubject = "Your FoodieHub order is confirmed"

// Sender is the part of the SendGrid client used here.
type Sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type EmailNotifier struct {
	client Sender
	from   *mail.Email
}

func NewEmailNotifier(apiKey, sender string) *EmailNotifier {
	return NewEmailNotifierWithSender(sendgrid.NewSendClient(apiKey), sender)
}

func NewEmailNotifierWithSender(client Sender, sender string) *EmailNotifier {
	return &EmailNotifier{
		client: client,
		from:   mail.NewEmail("FoodieHub", sender),
	}
}

func (n *EmailNotifier) SendOrderConfirmation(ctx context.Context, s services.OrderSummary) error {
	if s.UserDetails.Email == "" {
		return fmt.Errorf("no recipient for checkout %s", s.CheckoutID)
	}

	to := mail.NewEmail(s.UserDetails.Name, s.UserDetails.Email)
	msg := mail.NewSingleEmail(n.from, confirmationSubject, to, plainBody(s), htmlBody(s))

	resp, err := n.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}

	utils.InfoLogger.Printf("Order confirmation for %s sent to %s", s.CheckoutID, s.UserDetails.Email)
	return nil
}

func plainBody(s services.OrderSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order. We're on it.\n\n", s.UserDetails.Name)
	for _, it := range s.Items {
		fmt.Fprintf(&b, "%d x %s  %s\n", it.Quantity, it.Name, utils.FormatRupees(it.Price*float64(it.Quantity)))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", utils.FormatRupees(s.Totals.Subtotal))
	fmt.Fprintf(&b, "Delivery: %s\n", utils.FormatRupees(s.Totals.DeliveryFee))
	fmt.Fprintf(&b, "Tax: %s\n", utils.FormatRupees(s.Totals.Tax))
	if s.Totals.Discount > 0 {
		fmt.Fprintf(&b, "Discount (%s): -%s\n", s.Totals.CouponCode, utils.FormatRupees(s.Totals.Discount))
	}
	fmt.Fprintf(&b, "Total: %s\n\nPayment: %s\nDeliver to: %s\n", utils.FormatRupees(s.Totals.Total), s.PaymentMethod, s.UserDetails.Address)
	return b.String()
}

func htmlBody(s services.OrderSummary) string {
	var rows strings.Builder
	for _, it := range s.Items {
		fmt.Fprintf(&rows, "<tr><td>%d x %s</td><td>%s</td></tr>",
			it.Quantity, html.EscapeString(it.Name), utils.FormatRupees(it.Price*float64(it.Quantity)))
	}
	return fmt.Sprintf(
		"<strong>Hi %s,</strong><br><br>Thanks for your order!<table>%s</table><br>Total: <strong>%s</strong><br>Payment: %s<br>Deliver to: %s",
		html.EscapeString(s.UserDetails.Name),
		rows.String(),
		utils.FormatRupees(s.Totals.Total),
		html.EscapeString(s.PaymentMethod),
		html.EscapeString(s.UserDetails.Address),
	)
}
