// Package manifest models manifest.json: the pointer from the reader to the
// exported document (and optional per-section documents).
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// DefaultTitle is shown when the manifest carries no title.
const DefaultTitle = "Playbook"

// Pointer fields a reader variant may require.
const (
	FieldExportHTML = "export_html"
	FieldSections   = "sections"
)

// Manifest identifies where to fetch the document. It is immutable after load.
type Manifest struct {
	Title      string            `json:"title,omitempty"`
	ExportHTML string            `json:"export_html,omitempty"`
	Sections   map[string]string `json:"sections,omitempty"`
	Version    string            `json:"version,omitempty"`
}

// ErrMissingField is wrapped by Require when a pointer is absent.
var ErrMissingField = errors.New("manifest field missing")

// Parse decodes manifest JSON.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

// DisplayTitle returns the title, or DefaultTitle when unset.
func (m *Manifest) DisplayTitle() string {
	if m == nil || m.Title == "" {
		return DefaultTitle
	}
	return m.Title
}

// Require reports an error wrapping ErrMissingField when field is empty.
func (m *Manifest) Require(field string) error {
	switch field {
	case FieldExportHTML:
		if m.ExportHTML != "" {
			return nil
		}
	case FieldSections:
		if len(m.Sections) > 0 {
			return nil
		}
	default:
		return fmt.Errorf("unknown manifest field %q", field)
	}
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

// SectionPath looks up a named section document.
func (m *Manifest) SectionPath(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	p, ok := m.Sections[name]
	return p, ok && p != ""
}

// SectionNames returns the section keys sorted.
func (m *Manifest) SectionNames() []string {
	names := make([]string, 0, len(m.Sections))
	for k := range m.Sections {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ReadFile loads a manifest from disk.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// document is the raw key/value form of manifest.json. The build-time
// tools rewrite single keys through it so unknown keys survive.
type document map[string]any

func readDocument(path string) (document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc := document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		// An unreadable manifest is replaced rather than blocking an update.
		return document{}, nil
	}
	return doc, nil
}

func (d document) write(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
