package delivery

import (
	"time"

	"github.com/google/uuid"
)

// Record is the durable marker of whether a campaign email was delivered
// to a recipient. Exactly one record exists per (campaign key, raw email)
// pair; SentAt transitions from nil to a timestamp at most once and the
// record is never deleted by this package.
type Record struct {
	ID          uuid.UUID
	CampaignKey string
	RawEmail    string
	SentAt      *time.Time
	CreatedAt   time.Time
}

// Sent reports whether the campaign email was already delivered.
func (r *Record) Sent() bool {
	return r.SentAt != nil
}

// Target is one recipient of a send attempt. Recipient is the formatted
// RFC 5322 address placed on the message; RawEmail is the bare address
// used as the dedup key.
type Target struct {
	Recipient string `json:"recipient"`
	RawEmail  string `json:"raw_email"`
}

// BatchEntry pairs a target with its locked, not-yet-sent record.
type BatchEntry struct {
	Target Target
	Record *Record
}
