package sanitizer

import (
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/require"
)

func TestSanitizeEmailHTML_KeepsEmailMarkup(t *testing.T) {
	t.Parallel()

	in := `<table border="0" cellpadding="8"><tr><td style="color: #333">Hello <strong>Alice</strong></td></tr></table>`
	out := SanitizeEmailHTML(in)
	require.Contains(t, out, "<table")
	require.Contains(t, out, `cellpadding="8"`)
	require.Contains(t, out, `style="color: #333"`)
	require.Contains(t, out, "<strong>Alice</strong>")
}

func TestSanitizeEmailHTML_StripsExecutableMarkup(t *testing.T) {
	t.Parallel()

	out := SanitizeEmailHTML(`<p onclick="steal()">Hi</p><script>alert(1)</script><a href="javascript:alert(2)">x</a>`)
	require.NotContains(t, out, "onclick")
	require.NotContains(t, out, "<script>")
	require.NotContains(t, out, "javascript:")
	require.Contains(t, out, "<p>Hi</p>")
}

func TestSanitizeEmailHTML_KeepsSafeLinks(t *testing.T) {
	t.Parallel()

	out := SanitizeEmailHTML(`<a href="https://example.com/confirm">Confirm</a>`)
	require.Contains(t, out, `href="https://example.com/confirm"`)
	require.Contains(t, out, "Confirm")
}

func TestStripHTML(t *testing.T) {
	t.Parallel()

	out := StripHTML(`<p>Hello <strong>Alice</strong></p>`)
	require.Equal(t, "Hello Alice", out)
}

func TestSanitizeCustom(t *testing.T) {
	t.Parallel()

	in := `<em>kept</em>`
	require.Equal(t, in, SanitizeCustom(in, nil))

	policy := bluemonday.NewPolicy()
	require.Equal(t, "kept", SanitizeCustom(in, policy))
}
