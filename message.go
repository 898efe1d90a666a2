package courier

import (
	"context"

	"github.com/campaignkit/courier/pkg/delivery"
	"github.com/campaignkit/courier/pkg/job"
	"github.com/campaignkit/courier/pkg/mailer"
)

// Message is a composed campaign message awaiting recipients and
// submission. It is not safe for concurrent use.
type Message struct {
	courier     *Courier
	campaignKey string
	subject     string
	textBody    string
	htmlBody    string
	headers     map[string]string
	to          []delivery.Target
}

// CampaignKey returns the campaign key the message dedups under.
func (m *Message) CampaignKey() string {
	return m.campaignKey
}

// Subject returns the resolved subject.
func (m *Message) Subject() string {
	return m.subject
}

// HTMLBody returns the inlined HTML document.
func (m *Message) HTMLBody() string {
	return m.htmlBody
}

// SetHeader sets a custom header carried on every message in the batch.
func (m *Message) SetHeader(key, value string) *Message {
	m.headers[key] = value
	return m
}

// SetTextBody overrides the plain text alternative.
func (m *Message) SetTextBody(text string) *Message {
	m.textBody = text
	return m
}

// AddRecipient appends a recipient. The formatted address carries the
// display name when given; the raw email is the dedup key.
func (m *Message) AddRecipient(email, name string) *Message {
	m.to = append(m.to, delivery.Target{
		Recipient: mailer.Recipient(name, email),
		RawEmail:  email,
	})
	return m
}

// Recipients returns the targets added so far.
func (m *Message) Recipients() []delivery.Target {
	return m.to
}

// Send enqueues the delivery task for asynchronous execution by a
// worker. The only errors observable here are usage and queueing ones;
// delivery failures surface on the error reporter side-channel.
func (m *Message) Send(ctx context.Context) error {
	if len(m.to) == 0 {
		return ErrNoRecipients
	}
	if m.courier.submitter == nil {
		return ErrSubmitterRequired
	}

	return m.courier.submitter.Enqueue(ctx, delivery.TaskName, m.payload(),
		job.MaxAttempts(delivery.MaxAttempts),
	)
}

// SendSync executes the delivery task inline and returns its result
// immediately. Transport failures are still absorbed and reported; only
// storage failures propagate.
func (m *Message) SendSync(ctx context.Context) error {
	if len(m.to) == 0 {
		return ErrNoRecipients
	}
	return m.courier.task.Handle(ctx, m.payload())
}

func (m *Message) payload() delivery.Payload {
	return delivery.Payload{
		CampaignKey: m.campaignKey,
		To:          m.to,
		Subject:     m.subject,
		Headers:     m.headers,
		TextBody:    m.textBody,
		HTMLBody:    m.htmlBody,
	}
}
