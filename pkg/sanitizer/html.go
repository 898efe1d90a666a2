// Package sanitizer strips dangerous markup from HTML destined for
// campaign email bodies. Template data often originates from end users
// (display names, organization names), so rendered fragments are passed
// through bluemonday before they reach the transport.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailPolicy  *bluemonday.Policy
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// StrictPolicy strips all HTML, leaving plain text.
		strictPolicy = bluemonday.StrictPolicy()

		// Email clients render a narrow, table-heavy subset of HTML with
		// inline styles. Scripts, event handlers and javascript: URLs
		// are stripped.
		emailPolicy = bluemonday.NewPolicy()
		emailPolicy.AllowStandardURLs()
		emailPolicy.AllowElements(
			"html", "head", "body", "title",
			"p", "br", "hr", "div", "span",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"strong", "b", "em", "i", "u",
			"ul", "ol", "li",
			"table", "thead", "tbody", "tr", "td", "th",
			"img", "code", "pre", "blockquote",
		)
		emailPolicy.AllowAttrs("href").OnElements("a")
		emailPolicy.AllowAttrs("src", "alt", "width", "height").OnElements("img")
		emailPolicy.AllowAttrs("style").Globally()
		emailPolicy.AllowAttrs("align", "valign", "cellpadding", "cellspacing", "border").OnElements("table", "td", "th", "tr")
	})
}

// SanitizeEmailHTML keeps the markup email clients actually render
// (structure, formatting, tables, inline styles) and strips everything
// executable. Use on rendered bodies that interpolate untrusted data.
func SanitizeEmailHTML(s string) string {
	initPolicies()
	return emailPolicy.Sanitize(s)
}

// StripHTML removes all markup, returning plain text. Use for text
// alternatives and subjects derived from HTML content.
func StripHTML(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// SanitizeCustom applies a caller-provided bluemonday policy.
// Returns the input unchanged when policy is nil.
func SanitizeCustom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
