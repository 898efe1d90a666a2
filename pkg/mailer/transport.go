package mailer

import "context"

// Transport is the outbound email provider boundary. Implementations
// open a connection per delivery attempt; the connection is exclusively
// owned by one caller for the duration of one batch send.
type Transport interface {
	// Available reports whether the provider is configured for sending.
	// Callers should fail fast before composing messages when it is not.
	Available() bool

	// Open establishes a connection (or session) to the provider.
	Open(ctx context.Context) (Conn, error)
}

// Conn is a single-owner provider connection.
type Conn interface {
	// SendBatch submits all messages as one call. The batch is atomic
	// from the transport's perspective: it either succeeds or fails as
	// a whole.
	SendBatch(ctx context.Context, messages []*Email) error

	// Close releases the connection. Callers must close on every exit
	// path; a leaked connection is a bug even though close failures are
	// tolerated.
	Close() error
}
