// Package resend implements the mailer transport on top of the Resend API.
package resend

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/resend/resend-go/v3"

	"github.com/campaignkit/courier/pkg/mailer"
)

// Transport implements mailer.Transport using Resend's batch API.
type Transport struct {
	client *resend.Client
	config Config
}

// New creates a new Resend transport.
func New(cfg Config) *Transport {
	return &Transport{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// Available implements mailer.Transport.
func (t *Transport) Available() bool {
	return t.config.APIKey != ""
}

// Open implements mailer.Transport. Resend is an HTTP API, so the
// connection carries no live socket; Open still validates configuration
// so callers fail before composing a batch against a dead provider.
func (t *Transport) Open(_ context.Context) (mailer.Conn, error) {
	if !t.Available() {
		return nil, mailer.ErrNotConfigured
	}
	return &conn{client: t.client, config: t.config}, nil
}

type conn struct {
	client *resend.Client
	config Config
}

// SendBatch implements mailer.Conn. The whole batch goes out in one API
// call, which Resend applies atomically: either every message is
// accepted or the call fails.
func (c *conn) SendBatch(ctx context.Context, messages []*mailer.Email) error {
	batch := make([]*resend.SendEmailRequest, len(messages))
	for i, email := range messages {
		batch[i] = c.convert(email)
	}

	if _, err := c.client.Batch.SendWithContext(ctx, batch); err != nil {
		return errors.Join(mailer.ErrSendFailed, err)
	}
	return nil
}

// Close implements mailer.Conn. Nothing to release for an HTTP API.
func (c *conn) Close() error {
	return nil
}

func (c *conn) convert(email *mailer.Email) *resend.SendEmailRequest {
	from := email.From
	if from == "" {
		if c.config.SenderName != "" {
			from = fmt.Sprintf("%s <%s>", c.config.SenderName, c.config.SenderEmail)
		} else {
			from = c.config.SenderEmail
		}
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Headers: email.Headers,
	}

	if len(email.Attachments) > 0 {
		req.Attachments = convertAttachments(email.Attachments)
	}
	if len(email.Tags) > 0 {
		req.Tags = convertTags(email.Tags)
	}
	return req
}

func convertAttachments(attachments []mailer.Attachment) []*resend.Attachment {
	result := make([]*resend.Attachment, len(attachments))
	for i, a := range attachments {
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		}
	}
	return result
}

func convertTags(tags mailer.Tags) []resend.Tag {
	result := make([]resend.Tag, 0, len(tags))
	for name, value := range tags {
		result = append(result, resend.Tag{
			Name:  name,
			Value: tagValue(value),
		})
	}
	return result
}

// tagValue converts any value to a string for Resend's tag API.
// Presence-only tags (struct{}{}) become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
