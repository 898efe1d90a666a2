package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store provides durable per-recipient delivery state. All reads and
// writes happen inside a transaction scope opened by WithinTx; the
// transaction is the unit that holds record locks.
type Store interface {
	// WithinTx runs fn inside a single transaction. If fn returns an
	// error the transaction is rolled back and every staged write is
	// discarded; otherwise it is committed. Locks taken through the Tx
	// are released when the transaction ends, on either path.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is a transaction-scoped view of the store.
type Tx interface {
	// GetOrCreate returns the record for the pair, creating it if
	// missing. Concurrent calls for the same pair are safe: exactly one
	// record survives and both callers observe it.
	GetOrCreate(ctx context.Context, campaignKey, rawEmail string) (*Record, error)

	// Lock acquires an exclusive lock on the record and re-reads its
	// latest committed state. It blocks until any concurrent holder's
	// transaction ends. The lock is held for the remainder of this
	// transaction.
	Lock(ctx context.Context, id uuid.UUID) (*Record, error)

	// MarkSent stages the sent timestamp for the record. The write
	// becomes visible to other transactions only after commit.
	MarkSent(ctx context.Context, rec *Record, at time.Time) error
}
