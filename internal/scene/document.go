package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jmylchreest/recolour/internal/compression"
)

var (
	// ErrDuplicateElement is returned when two elements share an id.
	ErrDuplicateElement = errors.New("duplicate element id")

	// ErrMissingElementID is returned for an element with an empty id.
	ErrMissingElementID = errors.New("element has no id")
)

// Document is a host export: the frame being recoloured and its elements in
// painter's order (later elements draw above earlier ones).
type Document struct {
	Frame    string    `json:"frame,omitempty"`
	Elements []Element `json:"elements"`
}

// LoadDocument reads a document from path. Files ending in .gz, .xz or .bz2
// are decompressed transparently.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path) // #nosec G304 - Document path is supplied by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	r, err := compression.NewReader(path, f)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer r.Close()

	return ParseDocument(r)
}

// ParseDocument decodes and validates a JSON document.
func ParseDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that every element has a unique, non-empty id.
func (d *Document) Validate() error {
	return ValidateElements(d.Elements)
}

// ValidateElements checks that every element has a unique, non-empty id.
func ValidateElements(elements []Element) error {
	seen := make(map[string]struct{}, len(elements))
	for i, el := range elements {
		if el.ID == "" {
			return fmt.Errorf("%w: element %d", ErrMissingElementID, i)
		}
		if _, ok := seen[el.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateElement, el.ID)
		}
		seen[el.ID] = struct{}{}
	}
	return nil
}
