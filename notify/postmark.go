package notify

import (
	"context"
	"fmt"

	"github.com/keighl/postmark"
	"github.com/yeremiapane/foodiehub/services"
	"github.com/yeremiapane/foodiehub/utils"
)

// PostmarkClient is the part of the Postmark client used here.
type PostmarkClient interface {
	SendEmail(email postmark.Email) (postmark.EmailResponse, error)
}

type PostmarkNotifier struct {
	client PostmarkClient
	from   string
}

func NewPostmarkNotifier(serverToken, sender string) *PostmarkNotifier {
	return NewPostmarkNotifierWithClient(postmark.NewClient(serverToken, ""), sender)
}

func NewPostmarkNotifierWithClient(client PostmarkClient, sender string) *PostmarkNotifier {
	return &PostmarkNotifier{client: client, from: sender}
}

// SendOrderConfirmation sends the same message as EmailNotifier. The Postmark
// client takes no context, so ctx is only checked before sending.
func (n *PostmarkNotifier) SendOrderConfirmation(ctx context.Context, s services.OrderSummary) error {
	if s.UserDetails.Email == "" {
		return fmt.Errorf("no recipient for checkout %s", s.CheckoutID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	resp, err := n.client.SendEmail(postmark.Email{
		From:     n.from,
		To:       s.UserDetails.Email,
		Subject:  confirmationSubject,
		HtmlBody: htmlBody(s),
		TextBody: plainBody(s),
		Tag:      "order-confirmation",
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.ErrorCode != 0 {
		return fmt.Errorf("postmark returned %d: %s", resp.ErrorCode, resp.Message)
	}

	utils.InfoLogger.Printf("Order confirmation for %s sent to %s (postmark %s)", s.CheckoutID, s.UserDetails.Email, resp.MessageID)
	return nil
}
