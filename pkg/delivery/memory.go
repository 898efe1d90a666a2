package delivery

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps delivery records in process memory. The record lock
// is a per-record mutex held until the transaction ends, which gives the
// same serialization guarantee as the Postgres row lock but only within
// a single process. Use it in tests and in setups where delivery state
// does not need to survive restarts.
type MemoryStore struct {
	mu    sync.Mutex
	byKey map[memoryKey]*memoryRecord
	byID  map[uuid.UUID]*memoryRecord
}

type memoryKey struct {
	campaignKey string
	rawEmail    string
}

// memoryRecord holds the committed state of one record. lock is the row
// lock; committed state is read and written under the store mutex so
// snapshots never block behind a lock holder.
type memoryRecord struct {
	lock sync.Mutex
	rec  Record
}

// NewMemoryStore creates an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byKey: make(map[memoryKey]*memoryRecord),
		byID:  make(map[uuid.UUID]*memoryRecord),
	}
}

// WithinTx implements Store. Writes staged through the Tx are applied
// only when fn succeeds; record locks are released on every path.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx := &memoryTx{
		store:  s,
		locked: make(map[uuid.UUID]*memoryRecord),
		staged: make(map[uuid.UUID]time.Time),
	}

	defer func() {
		if p := recover(); p != nil {
			tx.release()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.release()
		return err
	}

	tx.commit()
	return nil
}

// Len returns the number of records in the store.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byKey)
}

type memoryTx struct {
	store  *MemoryStore
	locked map[uuid.UUID]*memoryRecord
	staged map[uuid.UUID]time.Time
}

// GetOrCreate implements Tx. Never blocks behind a lock holder; it
// returns a snapshot of the committed state.
func (t *memoryTx) GetOrCreate(_ context.Context, campaignKey, rawEmail string) (*Record, error) {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{campaignKey: campaignKey, rawEmail: rawEmail}
	mr, ok := s.byKey[key]
	if !ok {
		mr = &memoryRecord{rec: Record{
			ID:          uuid.New(),
			CampaignKey: campaignKey,
			RawEmail:    rawEmail,
			CreatedAt:   time.Now(),
		}}
		s.byKey[key] = mr
		s.byID[mr.rec.ID] = mr
	}

	snapshot := mr.rec
	return &snapshot, nil
}

// Lock implements Tx. Blocks until the current holder's transaction
// ends, then re-reads the committed state.
func (t *memoryTx) Lock(_ context.Context, id uuid.UUID) (*Record, error) {
	s := t.store
	s.mu.Lock()
	mr, ok := s.byID[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrRecordNotFound
	}

	if _, held := t.locked[id]; !held {
		mr.lock.Lock()
		t.locked[id] = mr
	}

	s.mu.Lock()
	snapshot := mr.rec
	s.mu.Unlock()
	return &snapshot, nil
}

// MarkSent implements Tx. Staged until commit.
func (t *memoryTx) MarkSent(_ context.Context, rec *Record, at time.Time) error {
	t.staged[rec.ID] = at
	rec.SentAt = &at
	return nil
}

func (t *memoryTx) commit() {
	s := t.store
	s.mu.Lock()
	for id, at := range t.staged {
		if mr, ok := s.byID[id]; ok {
			sentAt := at
			mr.rec.SentAt = &sentAt
		}
	}
	s.mu.Unlock()

	t.release()
}

func (t *memoryTx) release() {
	for _, mr := range t.locked {
		mr.lock.Unlock()
	}
	t.locked = make(map[uuid.UUID]*memoryRecord)
	t.staged = make(map[uuid.UUID]time.Time)
}
