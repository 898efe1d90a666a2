// Package inliner turns rendered HTML into a self-contained email
// document by moving stylesheet rules into inline style attributes.
package inliner

import (
	"fmt"
	"strings"

	douceur "github.com/aymerick/douceur/inliner"
)

const doctype = "<!DOCTYPE html>"

// Inline returns an HTML document with CSS inlined into style
// attributes. CSS media query support is inconsistent when the DOCTYPE
// declaration is missing, so the result is forced to HTML5.
func Inline(html string) (string, error) {
	out, err := douceur.Inline(html)
	if err != nil {
		return "", fmt.Errorf("inliner: failed to inline css: %w", err)
	}

	if !strings.HasPrefix(strings.TrimSpace(out), "<!DOCTYPE") {
		out = doctype + "\n" + out
	}
	return out, nil
}
