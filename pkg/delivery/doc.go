// Package delivery implements at-most-once campaign email delivery.
//
// Every (campaign key, raw email) pair is tracked by a durable Record.
// Before a message is handed to the transport, the recipient's record is
// created (idempotently) and locked for the remainder of the enclosing
// transaction; recipients whose record already carries a sent timestamp
// are skipped. Because the lock serializes concurrent senders at the
// store layer, two overlapping invocations of the same campaign never
// both deliver to the same recipient, regardless of which process runs
// them.
//
// # Components
//
//   - Store / Tx: transactional record storage with exclusive per-record
//     locking. Three implementations ship with the package: Postgres
//     (durable, multi-process safe, via row locks), Memory (per-key
//     mutex table, for tests and single-process setups), and Redis
//     (distributed locks, for deployments without Postgres).
//   - BuildBatch: the dedup filter producing the batch of still-unsent
//     recipients, locked until the transaction ends.
//   - Task: the job handler tying store, batch building, and transport
//     together in one all-or-nothing transaction.
//
// # Failure model
//
// Transport failures are soft: they are reported to the configured
// error reporter, swallowed, and leave every record unsent so a later
// re-invocation with the same campaign key retries delivery. Storage
// failures are hard: they abort the transaction and propagate to the
// job scheduler, which retries the task up to MaxAttempts times.
package delivery
