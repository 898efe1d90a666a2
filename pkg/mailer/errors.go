package mailer

import "errors"

var (
	// ErrNotConfigured indicates the transport is not configured for
	// sending (e.g., missing provider credentials).
	ErrNotConfigured = errors.New("mailer: email transport is not configured")

	// ErrTemplateNotFound indicates the template file was not found.
	ErrTemplateNotFound = errors.New("mailer: template not found")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("mailer: layout not found")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("mailer: failed to render template")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("mailer: invalid frontmatter")

	// ErrSendFailed indicates the provider rejected or failed the batch.
	ErrSendFailed = errors.New("mailer: failed to send batch")
)
