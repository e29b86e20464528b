package indexer

import (
	"sort"
	"strings"

	"github.com/mattsolo1/grove-materials/pkg/metadata"
	"github.com/mattsolo1/grove-materials/pkg/models"
)

// NewItem derives the index entry for one file.
// projectRel is the slash path relative to the project root and sourceRel the
// slash path relative to the source directory. The id is the slug of the raw
// projectRel, so it always equals Slugify(url); only title and tags are NFC
// normalized.
func NewItem(projectRel, sourceRel, name string) models.MaterialItem {
	date := metadata.GuessDate(name)
	year := metadata.YearOf(date)
	typ := metadata.TypeOf(name)

	tags := metadata.MergeYearTag(metadata.FolderTags(sourceRel), year)

	preview := ""
	if strings.EqualFold(metadata.FileExt(name), ".pdf") {
		preview = projectRel
	}

	return models.MaterialItem{
		ID:          metadata.Slugify(projectRel),
		Title:       metadata.PrettifyTitle(name),
		Type:        typ,
		Year:        year,
		Date:        date,
		Tags:        tags,
		Description: "Plik: " + typ,
		URL:         projectRel,
		Preview:     preview,
	}
}

// SortItems orders items newest first by (date, title). Undated items sort
// after dated ones; equal keys keep their scan order.
func SortItems(items []models.MaterialItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return a.Title > b.Title
	})
}
