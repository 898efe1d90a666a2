package resend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campaignkit/courier/pkg/mailer"
)

func TestTransport_Available(t *testing.T) {
	t.Parallel()

	require.False(t, New(Config{}).Available())
	require.True(t, New(Config{APIKey: "re_123"}).Available())
}

func TestTransport_Open_NotConfigured(t *testing.T) {
	t.Parallel()

	_, err := New(Config{}).Open(context.Background())
	require.ErrorIs(t, err, mailer.ErrNotConfigured)
}

func TestConn_Convert_SenderFallback(t *testing.T) {
	t.Parallel()

	c := &conn{config: Config{
		SenderEmail: "noreply@example.com",
		SenderName:  "Example",
	}}

	req := c.convert(&mailer.Email{
		To:      []string{"alice@example.com"},
		Subject: "Hello",
		HTML:    "<p>hi</p>",
		Text:    "hi",
		Headers: map[string]string{"X-Campaign": "launch"},
	})
	require.Equal(t, "Example <noreply@example.com>", req.From)
	require.Equal(t, []string{"alice@example.com"}, req.To)
	require.Equal(t, "Hello", req.Subject)
	require.Equal(t, "launch", req.Headers["X-Campaign"])

	// An explicit From wins over the configured sender.
	req = c.convert(&mailer.Email{From: "custom@example.com"})
	require.Equal(t, "custom@example.com", req.From)
}

func TestConn_Convert_NoSenderName(t *testing.T) {
	t.Parallel()

	c := &conn{config: Config{SenderEmail: "noreply@example.com"}}
	req := c.convert(&mailer.Email{})
	require.Equal(t, "noreply@example.com", req.From)
}

func TestConn_Convert_Tags(t *testing.T) {
	t.Parallel()

	c := &conn{config: Config{SenderEmail: "noreply@example.com"}}
	req := c.convert(&mailer.Email{
		Tags: mailer.Tags{
			"campaign": "launch",
			"batch":    7,
			"urgent":   struct{}{},
		},
	})
	require.Len(t, req.Tags, 3)

	values := make(map[string]string, len(req.Tags))
	for _, tag := range req.Tags {
		values[tag.Name] = tag.Value
	}
	require.Equal(t, "launch", values["campaign"])
	require.Equal(t, "7", values["batch"])
	require.Equal(t, "true", values["urgent"])
}

func TestConn_Close(t *testing.T) {
	t.Parallel()

	c := &conn{}
	require.NoError(t, c.Close())
}
