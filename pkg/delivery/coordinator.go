package delivery

import "context"

// BuildBatch filters a campaign's recipients down to those not yet
// delivered. For each target, in caller order, it creates the record if
// missing, locks it for the remainder of the transaction, and re-checks
// the sent timestamp under the lock. Targets whose record is already
// sent are skipped; their locks are released when the transaction ends.
//
// Holding the lock on every returned record until the transaction ends
// is what closes the double-send race: a concurrent invocation blocks on
// Lock for the overlapping recipient and, once this transaction commits,
// observes the record as sent and skips it.
func BuildBatch(ctx context.Context, tx Tx, campaignKey string, targets []Target) ([]BatchEntry, error) {
	batch := make([]BatchEntry, 0, len(targets))

	for _, target := range targets {
		rec, err := tx.GetOrCreate(ctx, campaignKey, target.RawEmail)
		if err != nil {
			return nil, err
		}

		rec, err = tx.Lock(ctx, rec.ID)
		if err != nil {
			return nil, err
		}

		if rec.Sent() {
			continue
		}

		batch = append(batch, BatchEntry{Target: target, Record: rec})
	}

	return batch, nil
}
