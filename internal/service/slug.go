// Package service implements the forum's business rules on top of the
// repository layer: slug derivation, category tree checks, the locked-thread
// rule, edit history and the notification fan-out transaction.
package service

import (
	"regexp"
	"strings"
)

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`\s+`)
)

// Slugify derives a URL slug from a title: lowercase, characters outside
// word/space/hyphen stripped, whitespace runs collapsed to single hyphens.
// "Hello World" becomes "hello-world".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
