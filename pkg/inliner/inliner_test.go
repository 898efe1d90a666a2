package inliner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInline_MovesStylesToAttributes(t *testing.T) {
	t.Parallel()

	html := `<html><head><style>p { color: red; }</style></head><body><p>Hello</p></body></html>`

	out, err := Inline(html)
	require.NoError(t, err)
	require.Contains(t, out, `style=`)
	require.Contains(t, out, `color: red`)
	require.NotContains(t, out, `<style>p { color: red; }</style>`)
}

func TestInline_ForcesDoctype(t *testing.T) {
	t.Parallel()

	out, err := Inline(`<html><body><p>Hello</p></body></html>`)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"), "missing DOCTYPE in %q", out)
}

func TestInline_KeepsExistingDoctype(t *testing.T) {
	t.Parallel()

	out, err := Inline(`<!DOCTYPE html><html><body><p>Hello</p></body></html>`)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(out, "<!DOCTYPE"))
}

func TestInline_PlainContent(t *testing.T) {
	t.Parallel()

	out, err := Inline(`<p>No styles at all</p>`)
	require.NoError(t, err)
	require.Contains(t, out, "No styles at all")
}
