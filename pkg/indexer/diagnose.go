package indexer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mattsolo1/grove-materials/pkg/models"
)

// IssueKind classifies problems found in an existing index
type IssueKind string

const (
	IssueTimestamp   IssueKind = "timestamp"
	IssueOrder       IssueKind = "order"
	IssueDuplicateID IssueKind = "duplicate_id"
	IssueMissingFile IssueKind = "missing_file"
)

// Issue is one finding of Diagnose
type Issue struct {
	Kind    IssueKind
	Message string
	Items   []int // positions in doc.Items
}

// Diagnose inspects a loaded index against the project tree. It only
// reports; duplicate ids in particular are legal output.
func Diagnose(doc *models.IndexDocument, projectRoot string) ([]Issue, error) {
	issues := []Issue{}

	if _, err := time.Parse(models.GeneratedAtLayout, doc.Meta.GeneratedAt); err != nil {
		issues = append(issues, Issue{
			Kind:    IssueTimestamp,
			Message: fmt.Sprintf("meta.generated_at %q is not a UTC timestamp", doc.Meta.GeneratedAt),
		})
	}

	for i := 1; i < len(doc.Items); i++ {
		a, b := doc.Items[i-1], doc.Items[i]
		if a.Date < b.Date || (a.Date == b.Date && a.Title < b.Title) {
			issues = append(issues, Issue{
				Kind:    IssueOrder,
				Message: fmt.Sprintf("%q sorts before %q", a.URL, b.URL),
				Items:   []int{i - 1, i},
			})
		}
	}

	byID := map[string][]int{}
	var order []string
	for i, item := range doc.Items {
		if _, seen := byID[item.ID]; !seen {
			order = append(order, item.ID)
		}
		byID[item.ID] = append(byID[item.ID], i)
	}
	for _, id := range order {
		if positions := byID[id]; len(positions) > 1 {
			issues = append(issues, Issue{
				Kind:    IssueDuplicateID,
				Message: fmt.Sprintf("id %q is shared by %d items", id, len(positions)),
				Items:   positions,
			})
		}
	}

	for i, item := range doc.Items {
		_, err := os.Stat(filepath.Join(projectRoot, filepath.FromSlash(item.URL)))
		if errors.Is(err, fs.ErrNotExist) {
			issues = append(issues, Issue{
				Kind:    IssueMissingFile,
				Message: fmt.Sprintf("%s no longer exists", item.URL),
				Items:   []int{i},
			})
		} else if err != nil {
			return nil, fmt.Errorf("stat %s: %w", item.URL, err)
		}
	}

	return issues, nil
}
