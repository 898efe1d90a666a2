package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecipient(t *testing.T) {
	t.Parallel()

	require.Equal(t, `"Alice" <alice@example.com>`, Recipient("Alice", "alice@example.com"))
	require.Equal(t, `"Bob Smith" <bob@example.com>`, Recipient("Bob Smith", "bob@example.com"))
	require.Equal(t, "carol@example.com", Recipient("", "carol@example.com"))
}

func TestSimpleTags(t *testing.T) {
	t.Parallel()

	tags := SimpleTags("newsletter", "weekly")
	require.Len(t, tags, 2)
	require.Contains(t, tags, "newsletter")
	require.Contains(t, tags, "weekly")
}
