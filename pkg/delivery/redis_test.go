package delivery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRedisStore_Options(t *testing.T) {
	t.Parallel()

	s := NewRedisStore(nil)
	require.Equal(t, "courier:", s.prefix)
	require.Equal(t, time.Minute, s.lockTTL)
	require.Equal(t, 50*time.Millisecond, s.lockRetry)

	s = NewRedisStore(nil,
		WithKeyPrefix("mailroom:"),
		WithLockTTL(5*time.Minute),
		WithLockRetryInterval(10*time.Millisecond),
	)
	require.Equal(t, "mailroom:", s.prefix)
	require.Equal(t, 5*time.Minute, s.lockTTL)
	require.Equal(t, 10*time.Millisecond, s.lockRetry)

	// Zero and empty values keep the defaults.
	s = NewRedisStore(nil, WithKeyPrefix(""), WithLockTTL(0), WithLockRetryInterval(0))
	require.Equal(t, "courier:", s.prefix)
	require.Equal(t, time.Minute, s.lockTTL)
}

func TestRedisStore_Keys(t *testing.T) {
	t.Parallel()

	s := NewRedisStore(nil)
	require.Equal(t, "courier:record:launch:alice@example.com", s.recordKey("launch", "alice@example.com"))
	require.Equal(t, "courier:lock:launch:alice@example.com", s.lockKey("launch", "alice@example.com"))
}

func TestSplitRecordKey(t *testing.T) {
	t.Parallel()

	campaign, email := splitRecordKey("launch:alice@example.com")
	require.Equal(t, "launch", campaign)
	require.Equal(t, "alice@example.com", email)

	// Only the first colon splits; the remainder belongs to the email.
	campaign, email = splitRecordKey(`launch:"odd:name"@example.com`)
	require.Equal(t, "launch", campaign)
	require.Equal(t, `"odd:name"@example.com`, email)
}
