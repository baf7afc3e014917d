package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/keighl/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePostmark struct {
	sent []postmark.Email
	resp postmark.EmailResponse
	err  error
}

func (f *fakePostmark) SendEmail(email postmark.Email) (postmark.EmailResponse, error) {
	f.sent = append(f.sent, email)
	return f.resp, f.err
}

func TestPostmarkSendOrderConfirmation(t *testing.T) {
	client := &fakePostmark{resp: postmark.EmailResponse{MessageID: "m-1"}}
	n := NewPostmarkNotifierWithClient(client, "orders@foodiehub.local")

	require.NoError(t, n.SendOrderConfirmation(context.Background(), summary()))
	require.Len(t, client.sent, 1)
	email := client.sent[0]
	assert.Equal(t, "alice@example.com", email.To)
	assert.Equal(t, "orders@foodiehub.local", email.From)
	assert.Contains(t, email.TextBody, "2 x Chicken Biryani")
	assert.Contains(t, email.TextBody, "Discount (SUMMER25): -₹100.00")
	assert.Contains(t, email.HtmlBody, "₹360.00")
}

func TestPostmarkSendOrderConfirmationFailures(t *testing.T) {
	client := &fakePostmark{resp: postmark.EmailResponse{ErrorCode: 300, Message: "Invalid email request"}}
	n := NewPostmarkNotifierWithClient(client, "orders@foodiehub.local")
	assert.Error(t, n.SendOrderConfirmation(context.Background(), summary()))

	client.err = errors.New("dial tcp: timeout")
	assert.Error(t, n.SendOrderConfirmation(context.Background(), summary()))

	s := summary()
	s.UserDetails.Email = ""
	assert.Error(t, n.SendOrderConfirmation(context.Background(), s))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sent := len(client.sent)
	assert.ErrorIs(t, n.SendOrderConfirmation(ctx, summary()), context.Canceled)
	assert.Len(t, client.sent, sent)
}
