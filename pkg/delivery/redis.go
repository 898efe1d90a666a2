package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix        = "courier:"
	defaultRedisLockTTL       = time.Minute
	defaultRedisLockRetry     = 50 * time.Millisecond
	redisFieldID              = "id"
	redisFieldSentAt          = "sent_at"
	redisFieldCreatedAt       = "created_at"
)

// unlockScript deletes a lock key only if this transaction still owns it,
// so an expired-and-reacquired lock is never released by the old holder.
var unlockScript = redis.NewScript(
	`if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`,
)

// RedisStore keeps delivery records in Redis hashes and serializes
// concurrent senders with per-pair lock keys (SET NX). It trades the
// Postgres store's transactional durability for a lighter deployment:
// writes staged through a Tx are applied together at commit, but the
// lock TTL bounds mutual exclusion. Configure the TTL to comfortably
// exceed the longest expected batch send.
type RedisStore struct {
	client    redis.UniversalClient
	prefix    string
	lockTTL   time.Duration
	lockRetry time.Duration
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix sets the key namespace prefix. Default: "courier:".
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithLockTTL sets how long a lock key lives before Redis expires it.
// Default: 1 minute.
func WithLockTTL(d time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		if d > 0 {
			s.lockTTL = d
		}
	}
}

// WithLockRetryInterval sets the polling interval while waiting for a
// contended lock. Default: 50ms.
func WithLockRetryInterval(d time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		if d > 0 {
			s.lockRetry = d
		}
	}
}

// NewRedisStore creates a record store on top of an existing Redis client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client:    client,
		prefix:    defaultRedisPrefix,
		lockTTL:   defaultRedisLockTTL,
		lockRetry: defaultRedisLockRetry,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithinTx implements Store. Staged writes are applied only when fn
// succeeds; lock keys are released on every path.
func (s *RedisStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx := &redisTx{
		store:  s,
		ctx:    ctx,
		locks:  make(map[string]string),
		staged: make(map[string]time.Time),
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

	if err := tx.commit(); err != nil {
		tx.release()
		return err
	}
	return nil
}

func (s *RedisStore) recordKey(campaignKey, rawEmail string) string {
	return fmt.Sprintf("%srecord:%s:%s", s.prefix, campaignKey, rawEmail)
}

func (s *RedisStore) lockKey(campaignKey, rawEmail string) string {
	return fmt.Sprintf("%slock:%s:%s", s.prefix, campaignKey, rawEmail)
}

func (s *RedisStore) idKey(id uuid.UUID) string {
	return s.prefix + "id:" + id.String()
}

type redisTx struct {
	store  *RedisStore
	ctx    context.Context
	locks  map[string]string    // lock key -> owner token
	staged map[string]time.Time // record key -> sent timestamp
}

// GetOrCreate implements Tx. HSETNX on the id field decides the race:
// exactly one creator wins, everyone reads the surviving hash.
func (t *redisTx) GetOrCreate(ctx context.Context, campaignKey, rawEmail string) (*Record, error) {
	s := t.store
	key := s.recordKey(campaignKey, rawEmail)

	created, err := s.client.HSetNX(ctx, key, redisFieldID, uuid.NewString()).Result()
	if err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	if created {
		if err := s.client.HSet(ctx, key,
			redisFieldCreatedAt, time.Now().UTC().Format(time.RFC3339Nano),
		).Err(); err != nil {
			return nil, errors.Join(ErrStorageUnavailable, err)
		}
	}

	rec, err := t.read(ctx, key)
	if err != nil {
		return nil, err
	}

	// Index by id so Lock can resolve the record key.
	if err := s.client.Set(ctx, s.idKey(rec.ID), key, 0).Err(); err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	return rec, nil
}

// Lock implements Tx. Polls SET NX until the lock is acquired or the
// context is canceled, then re-reads the record.
func (t *redisTx) Lock(ctx context.Context, id uuid.UUID) (*Record, error) {
	s := t.store

	key, err := s.client.Get(ctx, s.idKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}

	lockKey := s.prefix + "lock:" + key[len(s.prefix+"record:"):]
	if _, held := t.locks[lockKey]; !held {
		token := uuid.NewString()
		for {
			ok, err := s.client.SetNX(ctx, lockKey, token, s.lockTTL).Result()
			if err != nil {
				return nil, errors.Join(ErrStorageUnavailable, err)
			}
			if ok {
				break
			}
			select {
			case <-ctx.Done():
				return nil, errors.Join(ErrStorageUnavailable, ctx.Err())
			case <-time.After(s.lockRetry):
			}
		}
		t.locks[lockKey] = token
	}

	return t.read(ctx, key)
}

// MarkSent implements Tx. Staged until commit.
func (t *redisTx) MarkSent(_ context.Context, rec *Record, at time.Time) error {
	t.staged[t.store.recordKey(rec.CampaignKey, rec.RawEmail)] = at
	rec.SentAt = &at
	return nil
}

func (t *redisTx) read(ctx context.Context, key string) (*Record, error) {
	vals, err := t.store.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	if len(vals) == 0 {
		return nil, ErrRecordNotFound
	}

	id, err := uuid.Parse(vals[redisFieldID])
	if err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}

	campaignKey, rawEmail := splitRecordKey(key[len(t.store.prefix+"record:"):])
	rec := &Record{ID: id, CampaignKey: campaignKey, RawEmail: rawEmail}

	if v, ok := vals[redisFieldCreatedAt]; ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			rec.CreatedAt = ts
		}
	}
	if v, ok := vals[redisFieldSentAt]; ok && v != "" {
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, errors.Join(ErrStorageUnavailable, err)
		}
		rec.SentAt = &ts
	}
	return rec, nil
}

func (t *redisTx) commit() error {
	for key, at := range t.staged {
		if err := t.store.client.HSet(t.ctx, key,
			redisFieldSentAt, at.UTC().Format(time.RFC3339Nano),
		).Err(); err != nil {
			return errors.Join(ErrStorageUnavailable, err)
		}
	}
	t.staged = make(map[string]time.Time)
	t.release()
	return nil
}

func (t *redisTx) release() {
	for lockKey, token := range t.locks {
		// Best effort: an expired lock is already gone and the script is
		// a no-op for locks reacquired by someone else.
		_ = unlockScript.Run(t.ctx, t.store.client, []string{lockKey}, token).Err()
	}
	t.locks = make(map[string]string)
}

// splitRecordKey splits "campaign:email" at the first colon. Campaign
// keys never contain colons; raw emails may.
func splitRecordKey(rest string) (campaignKey, rawEmail string) {
	for i := 0; i < len(rest); i++ {
		if rest[i] == ':' {
			return rest[:i], rest[i+1:]
		}
	}
	return rest, ""
}
