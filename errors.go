package courier

import "errors"

var (
	// ErrNotConfigured indicates outbound email is not configured.
	// Raised at message construction time, before anything is
	// scheduled; never retried.
	ErrNotConfigured = errors.New("courier: email is not configured, set the transport credentials first")

	// ErrNoRecipients indicates a send was attempted with an empty
	// recipient list. Call Message.AddRecipient first.
	ErrNoRecipients = errors.New("courier: no recipients provided, use Message.AddRecipient first")

	// ErrSubmitterRequired indicates async sending was attempted
	// without a job submitter configured.
	ErrSubmitterRequired = errors.New("courier: job submitter is not configured")

	// ErrRenderFailed wraps template rendering and CSS inlining
	// failures during message construction.
	ErrRenderFailed = errors.New("courier: failed to compose campaign message")
)
