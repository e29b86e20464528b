package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mattsolo1/grove-materials/pkg/models"
)

func TestFilterItems(t *testing.T) {
	items := []models.MaterialItem{
		{Title: "Grafy", Type: "PDF", Year: "2024", Date: "2024-03-15", Tags: []string{"Algorytmy", "2024"}, Description: "Plik: PDF"},
		{Title: "Sortowanie", Type: "PPTX", Year: "2023", Date: "2023-11-02", Tags: []string{"Algorytmy", "2023"}, Description: "Plik: PPTX"},
		{Title: "Notatki", Type: "DOCX", Tags: []string{"Semestr 1"}, Description: "Plik: DOCX"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty filter", Filter{}, []string{"Grafy", "Sortowanie", "Notatki"}},
		{"by tag", Filter{Tag: "Algorytmy"}, []string{"Grafy", "Sortowanie"}},
		{"tag is exact", Filter{Tag: "algorytmy"}, []string{}},
		{"by year", Filter{Year: "2023"}, []string{"Sortowanie"}},
		{"type ignores case", Filter{Type: "pdf"}, []string{"Grafy"}},
		{"query title", Filter{Query: "graf"}, []string{"Grafy"}},
		{"query tags", Filter{Query: "semestr"}, []string{"Notatki"}},
		{"query description", Filter{Query: "plik: pptx"}, []string{"Sortowanie"}},
		{"query date", Filter{Query: "2024-03"}, []string{"Grafy"}},
		{"combined", Filter{Tag: "Algorytmy", Query: "sort"}, []string{"Sortowanie"}},
		{"no match", Filter{Query: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, item := range FilterItems(items, tt.filter) {
				got = append(got, item.Title)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
