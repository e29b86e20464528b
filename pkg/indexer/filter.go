package indexer

import (
	"strings"

	"github.com/mattsolo1/grove-materials/pkg/models"
)

// Filter selects items the way the site's materials page does: exact tag,
// year and type matches plus a case-insensitive substring query over title,
// description, type, year, date and tags.
type Filter struct {
	Tag   string
	Year  string
	Type  string
	Query string
}

// Match reports whether item passes the filter
func (f Filter) Match(item models.MaterialItem) bool {
	if f.Type != "" && !strings.EqualFold(item.Type, f.Type) {
		return false
	}
	if f.Year != "" && item.Year != f.Year {
		return false
	}
	if f.Tag != "" && !item.HasTag(f.Tag) {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	fields := append([]string{item.Title, item.Description, item.Type, item.Year, item.Date}, item.Tags...)
	return strings.Contains(strings.ToLower(strings.Join(fields, " ")), q)
}

// FilterItems returns the matching items in their original order
func FilterItems(items []models.MaterialItem, f Filter) []models.MaterialItem {
	out := []models.MaterialItem{}
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}
	return out
}
