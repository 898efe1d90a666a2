package courier

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/campaignkit/courier/pkg/delivery"
	"github.com/campaignkit/courier/pkg/inliner"
	"github.com/campaignkit/courier/pkg/job"
	"github.com/campaignkit/courier/pkg/logger"
	"github.com/campaignkit/courier/pkg/mailer"
)

// Config holds courier configuration.
type Config struct {
	mailer.Config

	// SanitizeContent passes rendered bodies through the email
	// sanitizer. Enable when templates interpolate untrusted data.
	SanitizeContent bool `env:"COURIER_SANITIZE_CONTENT" envDefault:"false"`
}

// Submitter dispatches delivery jobs for asynchronous execution.
// *job.Manager and *job.Enqueuer both satisfy it.
type Submitter interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) error
}

// Courier composes campaign messages and hands them to the delivery
// pipeline.
type Courier struct {
	cfg       Config
	renderer  *mailer.Renderer
	transport mailer.Transport
	task      *delivery.Task
	submitter Submitter
	log       *slog.Logger
	reporter  logger.ErrorReporter
}

// Option configures a Courier.
type Option func(*Courier)

// WithSubmitter sets the job submitter used by Message.Send.
func WithSubmitter(s Submitter) Option {
	return func(c *Courier) {
		c.submitter = s
	}
}

// WithLogger sets the logger. Defaults to noop.
func WithLogger(l *slog.Logger) Option {
	return func(c *Courier) {
		if l != nil {
			c.log = l
		}
	}
}

// WithReporter sets the error reporter receiving absorbed delivery
// failures. Defaults to logging them.
func WithReporter(r logger.ErrorReporter) Option {
	return func(c *Courier) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithRenderer overrides the template renderer built from the templates
// filesystem.
func WithRenderer(r *mailer.Renderer) Option {
	return func(c *Courier) {
		if r != nil {
			c.renderer = r
		}
	}
}

// New creates a Courier on top of a record store, a transport, and a
// template filesystem.
func New(store delivery.Store, transport mailer.Transport, templates fs.FS, cfg Config, opts ...Option) (*Courier, error) {
	if cfg.DefaultLayout == "" {
		cfg.DefaultLayout = "base.html"
	}
	if cfg.FallbackSubject == "" {
		cfg.FallbackSubject = "Notification"
	}

	c := &Courier{
		cfg:       cfg,
		transport: transport,
		log:       logger.NewNope(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.renderer == nil {
		c.renderer = mailer.NewRendererWithConfig(templates, mailer.RendererConfig{
			SanitizeContent: cfg.SanitizeContent,
		})
	}
	if c.reporter == nil {
		c.reporter = logger.NewLogReporter(c.log)
	}

	task, err := delivery.NewTask(store, transport,
		delivery.WithLogger(c.log),
		delivery.WithReporter(c.reporter),
	)
	if err != nil {
		return nil, err
	}
	c.task = task

	return c, nil
}

// SetSubmitter wires the job submitter after construction. The usual
// order is New → register Task() on the job manager → SetSubmitter,
// since the manager needs the task and Send needs the manager.
func (c *Courier) SetSubmitter(s Submitter) {
	c.submitter = s
}

// Task returns the delivery task for registration on the job manager:
//
//	job.NewManager(pool, job.WithTask(c.Task()))
func (c *Courier) Task() *delivery.Task {
	return c.task
}

// IsAvailable reports whether outbound email is configured on this
// instance.
func (c *Courier) IsAvailable() bool {
	return c.transport != nil && c.transport.Available()
}

// NewMessage composes a campaign message: renders the named template,
// inlines its CSS into a self-contained document, and resolves the
// subject (explicit subject, then template frontmatter, then the
// configured fallback). Fails fast with ErrNotConfigured when outbound
// email is not configured.
func (c *Courier) NewMessage(campaignKey, subject, templateName string, data any) (*Message, error) {
	if !c.IsAvailable() {
		return nil, ErrNotConfigured
	}

	result, err := c.renderer.Render(c.cfg.DefaultLayout, templateName, data)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	html, err := inliner.Inline(result.HTML)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	if subject == "" {
		if s, ok := result.Metadata["Subject"].(string); ok {
			subject = s
		} else {
			subject = c.cfg.FallbackSubject
		}
	}

	return &Message{
		courier:     c,
		campaignKey: campaignKey,
		subject:     subject,
		htmlBody:    html,
		textBody:    result.Text,
		headers:     make(map[string]string),
	}, nil
}
