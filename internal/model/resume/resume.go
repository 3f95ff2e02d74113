package resume

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidDocument is returned when the résumé file is not valid JSON.
var ErrInvalidDocument = errors.New("resume document is not valid json")

// Document is the immutable résumé data the persona prompt is built from.
// The raw bytes are kept so the source key order survives serialization.
type Document struct {
	indented string
}

// Load reads and validates the résumé document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resume %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates raw JSON and returns the document.
func Parse(data []byte) (*Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || !json.Valid(data) {
		return nil, ErrInvalidDocument
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &Document{indented: buf.String()}, nil
}

// Indented returns the document as two-space indented JSON.
func (d *Document) Indented() string {
	if d == nil {
		return "{}"
	}
	return d.indented
}
