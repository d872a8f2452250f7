// Package sanitize strips all markup from outbound free-text fields before
// they are sent to the API.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict allows no tags and no attributes at all.
var strict = bluemonday.StrictPolicy()

// Strip removes every tag from s, resolves entities back to plain text and
// trims surrounding whitespace.
func Strip(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// StripAll applies Strip to each entry, dropping ones that end up empty.
func StripAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if clean := Strip(s); clean != "" {
			out = append(out, clean)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
