package indexer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mattsolo1/grove-materials/pkg/models"
)

// ErrInvalidOutput means the written index could not be read back
var ErrInvalidOutput = errors.New("generated JSON is invalid")

// Encode serializes doc with two-space indentation and a trailing newline.
// Non-ASCII and HTML characters are written literally.
func Encode(doc *models.IndexDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode index: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDocument encodes doc and overwrites path with it
func WriteDocument(path string, doc *models.IndexDocument) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// ReadDocument loads an index file. Parse failures wrap ErrInvalidOutput.
func ReadDocument(path string) (*models.IndexDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var doc models.IndexDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return &doc, nil
}

// ValidateFile re-reads path and checks it parses and holds wantItems items
func ValidateFile(path string, wantItems int) error {
	doc, err := ReadDocument(path)
	if err != nil {
		if errors.Is(err, ErrInvalidOutput) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if len(doc.Items) != wantItems {
		return fmt.Errorf("%w: read back %d items, wrote %d", ErrInvalidOutput, len(doc.Items), wantItems)
	}
	return nil
}
