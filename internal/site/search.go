package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/playbookhq/playbook/internal/dom"
	"github.com/playbookhq/playbook/internal/route"
	"github.com/playbookhq/playbook/internal/segment"
)

// SearchIndexFile is written next to the sections file by a build.
const SearchIndexFile = "data/search-index.json"

const maxIndexedContent = 2000

// SearchEntry represents a single searchable section of the playbook.
type SearchEntry struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// BuildSearchIndex builds one entry per section, linked by its route.
func BuildSearchIndex(sections []segment.Section) []SearchEntry {
	entries := make([]SearchEntry, 0, len(sections))
	for _, s := range sections {
		entry := SearchEntry{
			Path:  route.SectionHref(s.Slug, ""),
			Title: s.Title,
		}
		var parts []string
		for _, n := range s.Nodes {
			text := strings.Join(strings.Fields(dom.Text(n)), " ")
			if text == "" {
				continue
			}
			if entry.Summary == "" && dom.IsElement(n, "p") {
				entry.Summary = text
			}
			parts = append(parts, text)
		}
		content := strings.Join(parts, " ")
		if len(content) > maxIndexedContent {
			content = truncateUTF8(content, maxIndexedContent)
		}
		entry.Content = content
		entries = append(entries, entry)
	}
	return entries
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	for n > 0 && n < len(s) && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
