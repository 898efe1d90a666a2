package delivery

import (
	"context"
	"log/slog"
	"time"

	"github.com/campaignkit/courier/pkg/logger"
	"github.com/campaignkit/courier/pkg/mailer"
)

const (
	// TaskName is the job queue name under which the delivery task is
	// registered.
	TaskName = "courier:deliver"

	// MaxAttempts bounds scheduler-level retries of the task. Only
	// infrastructure failures (storage down) reach the scheduler;
	// transport failures are absorbed and never retried automatically.
	MaxAttempts = 3
)

// Payload is the job payload for one campaign delivery invocation.
type Payload struct {
	CampaignKey string            `json:"campaign_key"`
	To          []Target          `json:"to"`
	Subject     string            `json:"subject"`
	Headers     map[string]string `json:"headers,omitempty"`
	TextBody    string            `json:"text_body,omitempty"`
	HTMLBody    string            `json:"html_body,omitempty"`
}

// Task delivers one campaign invocation to its recipients inside a
// single store transaction: build the deduplicated batch under lock,
// submit it to the transport as one call, stage sent timestamps, commit.
//
// Failure isolation: a transport failure is captured once on the error
// reporter and swallowed, so one broken campaign never fails the job or
// blocks unrelated work sharing the queue; no record is marked sent, and
// a later invocation with the same campaign key retries those
// recipients. Storage failures abort the transaction and propagate.
type Task struct {
	store     Store
	transport mailer.Transport
	reporter  logger.ErrorReporter
	log       *slog.Logger
	now       func() time.Time
}

// TaskOption configures a Task.
type TaskOption func(*Task)

// WithReporter sets the error reporter for soft failures.
// Defaults to a reporter writing to the task's logger.
func WithReporter(r logger.ErrorReporter) TaskOption {
	return func(t *Task) {
		if r != nil {
			t.reporter = r
		}
	}
}

// WithLogger sets the task logger. Defaults to a noop logger.
func WithLogger(l *slog.Logger) TaskOption {
	return func(t *Task) {
		if l != nil {
			t.log = l
		}
	}
}

// WithClock overrides the sent-timestamp source. For tests.
func WithClock(now func() time.Time) TaskOption {
	return func(t *Task) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTask creates the delivery task.
func NewTask(store Store, transport mailer.Transport, opts ...TaskOption) (*Task, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if transport == nil {
		return nil, ErrTransportRequired
	}

	t := &Task{
		store:     store,
		transport: transport,
		log:       logger.NewNope(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.reporter == nil {
		t.reporter = logger.NewLogReporter(t.log)
	}
	return t, nil
}

// Name implements the job task contract.
func (t *Task) Name() string {
	return TaskName
}

// Handle executes one delivery invocation. An error return aborts the
// transaction and signals the scheduler to retry; a nil return commits.
func (t *Task) Handle(ctx context.Context, p Payload) error {
	return t.store.WithinTx(ctx, func(tx Tx) error {
		batch, err := BuildBatch(ctx, tx, p.CampaignKey, p.To)
		if err != nil {
			return err
		}

		if len(batch) == 0 {
			// Every recipient already delivered; committing releases the
			// locks taken while checking.
			t.log.DebugContext(ctx, "empty delivery batch",
				slog.String("campaign_key", p.CampaignKey),
				slog.Int("recipients", len(p.To)),
			)
			return nil
		}

		messages := make([]*mailer.Email, len(batch))
		for i, entry := range batch {
			messages[i] = &mailer.Email{
				To:      []string{entry.Target.Recipient},
				Subject: p.Subject,
				Headers: p.Headers,
				Text:    p.TextBody,
				HTML:    p.HTMLBody,
			}
		}

		if err := t.submit(ctx, messages); err != nil {
			// Soft failure: report once, swallow, commit with every
			// record still unsent.
			t.reporter.CaptureException(ctx, err)
			t.log.ErrorContext(ctx, "campaign delivery failed",
				slog.String("campaign_key", p.CampaignKey),
				slog.Int("batch_size", len(batch)),
				slog.Any("error", err),
			)
			return nil
		}

		sentAt := t.now()
		for _, entry := range batch {
			if err := tx.MarkSent(ctx, entry.Record, sentAt); err != nil {
				return err
			}
		}

		t.log.InfoContext(ctx, "campaign delivered",
			slog.String("campaign_key", p.CampaignKey),
			slog.Int("sent", len(batch)),
			slog.Int("skipped", len(p.To)-len(batch)),
		)
		return nil
	})
}

// submit opens a transport connection, sends the batch as one call, and
// always closes the connection. Close failures stay silent.
func (t *Task) submit(ctx context.Context, messages []*mailer.Email) error {
	conn, err := t.transport.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close()
	}()

	return conn.SendBatch(ctx, messages)
}
