package utils

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	nonSlugCharRe = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify lowercases, turns whitespace runs into dashes and drops anything
// outside [a-z0-9-].
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRe.ReplaceAllString(s, "-")
	return nonSlugCharRe.ReplaceAllString(s, "")
}

// TagSlug prefixes tag slugs so they never collide with category slugs.
func TagSlug(name string) string {
	return "tag-" + Slugify(name)
}
