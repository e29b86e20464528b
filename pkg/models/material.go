package models

import "time"

// GeneratedAtLayout is the timestamp format of Meta.GeneratedAt (UTC, second precision)
const GeneratedAtLayout = "2006-01-02T15:04:05Z"

// MaterialItem describes one indexed lecture file
type MaterialItem struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Type        string   `json:"type" yaml:"type"`
	Year        string   `json:"year" yaml:"year"`
	Date        string   `json:"date" yaml:"date"`
	Tags        []string `json:"tags" yaml:"tags"`
	Description string   `json:"description" yaml:"description"`
	URL         string   `json:"url" yaml:"url"`
	Preview     string   `json:"preview" yaml:"preview"`
}

// Meta holds generation metadata for an index document
type Meta struct {
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
}

// IndexDocument is the JSON artifact consumed by the front-end
type IndexDocument struct {
	Meta  Meta           `json:"meta" yaml:"meta"`
	Items []MaterialItem `json:"items" yaml:"items"`
}

// NewIndexDocument returns a document stamped with t. Items is never nil so it
// serializes as an empty array.
func NewIndexDocument(t time.Time, items []MaterialItem) *IndexDocument {
	if items == nil {
		items = []MaterialItem{}
	}
	return &IndexDocument{
		Meta:  Meta{GeneratedAt: t.UTC().Format(GeneratedAtLayout)},
		Items: items,
	}
}

// HasTag reports whether the item carries tag
func (m MaterialItem) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
