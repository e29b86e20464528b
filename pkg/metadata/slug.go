package metadata

import (
	"regexp"
	"strings"
)

// FallbackSlug is returned by Slugify when nothing alphanumeric survives
const FallbackSlug = "item"

var (
	nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)
	dashRun    = regexp.MustCompile(`-{2,}`)
)

// Slugify turns s into a URL-safe identifier. Distinct inputs may share a slug.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonSlugRun.ReplaceAllString(s, "-")
	s = dashRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return FallbackSlug
	}
	return s
}
