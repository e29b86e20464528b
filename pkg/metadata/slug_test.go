package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"relative path", "wyklady/Semestr_1/2024-03-15_Wstep.pdf", "wyklady-semestr-1-2024-03-15-wstep-pdf"},
		{"mixed case", "Hello World", "hello-world"},
		{"leading and trailing junk", "--__abc__--", "abc"},
		{"non ascii letters dropped", "wykłady/Źródła.pdf", "wyk-ady-r-d-a-pdf"},
		{"only punctuation", "!!!", FallbackSlug},
		{"empty", "", FallbackSlug},
		{"digits kept", "2024", "2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSlugifyProperties(t *testing.T) {
	inputs := []string{
		"", "a", "A--B", "wyklady/x y/z.pdf", "ąęść", "...", "item", "-item-", "Foo_Bar.PDF", "  spaced  out  ",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := Slugify(in)
			assert.NotEmpty(t, once)
			assert.Equal(t, once, Slugify(once), "slugify must be idempotent")
			assert.Regexp(t, `^[a-z0-9]+(-[a-z0-9]+)*$`, once)
		})
	}
}

func TestSlugifyCollisions(t *testing.T) {
	// Paths differing only in punctuation share an id; nothing disambiguates them.
	assert.Equal(t, Slugify("wyklady/a_b.pdf"), Slugify("wyklady/a-b.pdf"))
}
