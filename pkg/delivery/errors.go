package delivery

import "errors"

var (
	// ErrRecordNotFound is returned when locking a record that does not
	// exist in the store.
	ErrRecordNotFound = errors.New("delivery: record not found")

	// ErrStorageUnavailable wraps store-level failures. It aborts the
	// enclosing transaction and propagates to the job scheduler.
	ErrStorageUnavailable = errors.New("delivery: storage unavailable")

	// ErrStoreRequired is returned when constructing a task without a
	// record store.
	ErrStoreRequired = errors.New("delivery: record store is required")

	// ErrTransportRequired is returned when constructing a task without
	// a transport.
	ErrTransportRequired = errors.New("delivery: transport is required")
)
