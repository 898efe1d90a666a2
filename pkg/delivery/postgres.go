package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campaignkit/courier/pkg/db"
)

// PostgresStore is the durable record store backed by Postgres. Record
// locks are plain row locks (SELECT ... FOR UPDATE), so the at-most-once
// guarantee holds across processes and hosts sharing the database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store on top of an existing connection pool.
// The messaging_records table must exist; apply the embedded migrations
// with db.Migrate first.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// WithinTx implements Store.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&postgresTx{tx: tx})
	})
}

type postgresTx struct {
	tx pgx.Tx
}

// GetOrCreate implements Tx. The insert races benignly with concurrent
// transactions: ON CONFLICT DO NOTHING guarantees a single surviving row
// per pair, and the follow-up select returns it either way.
func (t *postgresTx) GetOrCreate(ctx context.Context, campaignKey, rawEmail string) (*Record, error) {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO messaging_records (id, campaign_key, raw_email)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (campaign_key, raw_email) DO NOTHING`,
		uuid.New(), campaignKey, rawEmail,
	)
	if err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}

	rec, err := t.scanOne(ctx,
		`SELECT id, campaign_key, raw_email, sent_at, created_at
		 FROM messaging_records
		 WHERE campaign_key = $1 AND raw_email = $2`,
		campaignKey, rawEmail,
	)
	if err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	return rec, nil
}

// Lock implements Tx. Blocks until any concurrent transaction holding
// the row lock commits or rolls back, then returns the latest committed
// state of the record.
func (t *postgresTx) Lock(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := t.scanOne(ctx,
		`SELECT id, campaign_key, raw_email, sent_at, created_at
		 FROM messaging_records
		 WHERE id = $1
		 FOR UPDATE`,
		id,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	return rec, nil
}

// MarkSent implements Tx. Visible to other transactions after commit.
func (t *postgresTx) MarkSent(ctx context.Context, rec *Record, at time.Time) error {
	if _, err := t.tx.Exec(ctx,
		`UPDATE messaging_records SET sent_at = $2 WHERE id = $1`,
		rec.ID, at,
	); err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}
	rec.SentAt = &at
	return nil
}

func (t *postgresTx) scanOne(ctx context.Context, query string, args ...any) (*Record, error) {
	var rec Record
	err := t.tx.QueryRow(ctx, query, args...).Scan(
		&rec.ID, &rec.CampaignKey, &rec.RawEmail, &rec.SentAt, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
