package metadata

import "strings"

// FolderTags generates tags from the folders between the source root and the
// file: "Semestr_1/Wyklad_2/Notatki.docx" -> ["Semestr 1", "Wyklad 2"].
// relPath uses forward slashes and is relative to the source root.
func FolderTags(relPath string) []string {
	tags := []string{}
	parts := strings.Split(relPath, "/")
	if len(parts) < 2 {
		return tags
	}
	for _, part := range parts[:len(parts)-1] {
		part = strings.TrimSpace(strings.ReplaceAll(part, "_", " "))
		if part != "" {
			tags = append(tags, NormalizeText(part))
		}
	}
	return tags
}

// MergeYearTag appends year to tags unless it is empty or already present
func MergeYearTag(tags []string, year string) []string {
	if year == "" {
		return tags
	}
	for _, tag := range tags {
		if tag == year {
			return tags
		}
	}
	return append(tags, year)
}
