package metadata

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	extensionSuffix = regexp.MustCompile(`\.[^.]+$`)
	leadingDate     = regexp.MustCompile(`^[0-9]{4}-?[0-9]{2}-?[0-9]{2}[_ -]+`)
	// any Unicode whitespace, not only ASCII
	whitespaceRun   = regexp.MustCompile(`[\s\p{Z}\x{85}\x{1c}-\x{1f}]{2,}`)
)

// PrettifyTitle builds a readable title from a filename:
// "2024-03-15_Wstep_do_algorytmow.pdf" -> "Wstep do algorytmow".
// If nothing is left the original filename is returned.
func PrettifyTitle(filename string) string {
	base := extensionSuffix.ReplaceAllString(filename, "")
	base = leadingDate.ReplaceAllString(base, "")
	base = strings.ReplaceAll(base, "_", " ")
	base = whitespaceRun.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)
	if base == "" {
		return NormalizeText(filename)
	}
	return NormalizeText(base)
}

// NormalizeText converts s to Unicode NFC so decomposed names (as written by
// some filesystems) compare equal to composed ones.
func NormalizeText(s string) string {
	return norm.NFC.String(s)
}
