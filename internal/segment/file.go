package segment

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playbookhq/playbook/internal/dom"
	"github.com/playbookhq/playbook/internal/slug"
)

// File is the precomputed sections file (data/sections.json).
type File struct {
	Source      string        `json:"source,omitempty"`
	GeneratedAt string        `json:"generated_at,omitempty"`
	Sections    []FileSection `json:"sections"`
}

// FileSection is one serialized section.
type FileSection struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	HTML  string `json:"html"`
}

// Encode serializes sections for the precomputed file.
func Encode(source string, sections []Section, now time.Time) ([]byte, error) {
	f := File{
		Source:      source,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Sections:    make([]FileSection, len(sections)),
	}
	for i, s := range sections {
		f.Sections[i] = FileSection{Title: s.Title, Slug: s.Slug, HTML: s.HTML()}
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding sections: %w", err)
	}
	return data, nil
}

// Decode parses a precomputed file into sections. Titles and slugs are
// used verbatim; a missing slug is derived from the title.
func Decode(data []byte) ([]Section, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding sections: %w", err)
	}
	var ns slug.Namespace
	for _, fs := range f.Sections {
		if fs.Slug != "" {
			ns.Reserve(fs.Slug)
		}
	}
	out := make([]Section, 0, len(f.Sections))
	for i, fs := range f.Sections {
		nodes, err := dom.ParseFragment(fs.HTML)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		s := Section{Title: fs.Title, Slug: fs.Slug, Nodes: nodes}
		if s.Title == "" {
			s.Title = fmt.Sprintf("Section %d", i+1)
		}
		if s.Slug == "" {
			s.Slug = ns.ClaimText(s.Title)
		}
		out = append(out, s)
	}
	return out, nil
}

// WriteFile writes the precomputed file, creating parent directories.
func WriteFile(path, source string, sections []Section, now time.Time) error {
	data, err := Encode(source, sections, now)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
