package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewIndexDocument(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	doc := NewIndexDocument(time.Date(2024, 10, 1, 14, 30, 45, 999, loc), nil)

	if doc.Meta.GeneratedAt != "2024-10-01T13:30:45Z" {
		t.Errorf("Expected UTC second-precision timestamp, got %s", doc.Meta.GeneratedAt)
	}
	if doc.Items == nil {
		t.Fatal("Items should never be nil")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document: %v", err)
	}
	want := `{"meta":{"generated_at":"2024-10-01T13:30:45Z"},"items":[]}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}

func TestMaterialItemFieldOrder(t *testing.T) {
	item := MaterialItem{
		ID:          "wyklady-a-pdf",
		Title:       "A",
		Type:        "PDF",
		Tags:        []string{},
		Description: "Plik: PDF",
		URL:         "wyklady/a.pdf",
		Preview:     "wyklady/a.pdf",
	}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Failed to marshal item: %v", err)
	}
	want := `{"id":"wyklady-a-pdf","title":"A","type":"PDF","year":"","date":"","tags":[],"description":"Plik: PDF","url":"wyklady/a.pdf","preview":"wyklady/a.pdf"}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}

func TestHasTag(t *testing.T) {
	item := MaterialItem{Tags: []string{"Semestr 1", "2024"}}

	tests := []struct {
		tag  string
		want bool
	}{
		{"Semestr 1", true},
		{"2024", true},
		{"semestr 1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := item.HasTag(tt.tag); got != tt.want {
				t.Errorf("HasTag(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}
