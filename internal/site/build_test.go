package site

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/playbookhq/playbook/internal/dom"
	"github.com/playbookhq/playbook/internal/manifest"
	"github.com/playbookhq/playbook/internal/segment"
)

func TestBuild(t *testing.T) {
	root := writeSite(t)
	out := filepath.Join(t.TempDir(), "dist")

	res, err := Build(context.Background(), BuildOptions{
		Root:      root,
		OutputDir: out,
		Assets:    []string{"index.html", "styles.css", "main.js", "reader.js"},
		Now:       func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) },
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Sections != 2 {
		t.Errorf("sections = %d, want 2", res.Sections)
	}

	// reader.js does not exist and has no default, so it is skipped.
	for _, name := range []string{
		"index.html",
		"styles.css",
		"main.js",
		"manifest.json",
		"exports/doc.html",
		"data/sections.json",
		SearchIndexFile,
	} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(name))); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "reader.js")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("reader.js should be skipped, stat err = %v", err)
	}

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), `id="doc"`) {
		t.Errorf("default index.html lacks the doc mount")
	}

	data, err := os.ReadFile(filepath.Join(out, "data", "sections.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"generated_at": "2025-03-01T00:00:00Z"`) {
		t.Errorf("generated_at missing: %s", data)
	}
	sections, err := segment.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if sections[1].Title != "Hire" {
		t.Errorf("second section = %q", sections[1].Title)
	}

	var entries []SearchEntry
	raw, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(SearchIndexFile)))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.Fatalf("search index: %v", err)
	}
	if len(entries) != 2 || entries[0].Path != "#/s/scale" || entries[0].Summary != "Grow the team." {
		t.Errorf("search entries = %+v", entries)
	}
}

func TestBuildCopiesSectionDocuments(t *testing.T) {
	root := writeSite(t)
	manifestJSON := `{"export_html":"exports/doc.html","sections":{"hire":"exports/hire.html"}}`
	if err := os.WriteFile(filepath.Join(root, "manifest.json"), []byte(manifestJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "exports", "hire.html"), []byte("<h1>Hire</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	if _, err := Build(context.Background(), BuildOptions{Root: root, OutputDir: out}, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "exports", "hire.html")); err != nil {
		t.Errorf("section document not copied: %v", err)
	}
}

func TestBuildRejectsEscapingPointers(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"export", `{"export_html":"../outside.html"}`},
		{"section", `{"export_html":"exports/doc.html","sections":{"hire":"exports/../../hire.html"}}`},
		{"absolute", `{"export_html":"/tmp/doc.html"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeSite(t)
			if err := os.WriteFile(filepath.Join(root, "manifest.json"), []byte(tt.manifest), 0o644); err != nil {
				t.Fatal(err)
			}
			out := filepath.Join(t.TempDir(), "dist")
			_, err := Build(context.Background(), BuildOptions{Root: root, OutputDir: out}, nil)
			if !errors.Is(err, ErrUnsafePath) {
				t.Fatalf("err = %v, want ErrUnsafePath", err)
			}
			if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("output written despite an unsafe pointer: %v", err)
			}
		})
	}
}

func TestBuildRequiresExportPointer(t *testing.T) {
	root := writeSite(t)
	if err := os.WriteFile(filepath.Join(root, "manifest.json"), []byte(`{"title":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Build(context.Background(), BuildOptions{Root: root, OutputDir: t.TempDir()}, nil)
	if !errors.Is(err, manifest.ErrMissingField) {
		t.Errorf("err = %v, want ErrMissingField", err)
	}
}

func TestBuildMissingManifest(t *testing.T) {
	_, err := Build(context.Background(), BuildOptions{Root: t.TempDir(), OutputDir: t.TempDir()}, nil)
	if err == nil {
		t.Fatal("expected error without a manifest")
	}
}

func TestBuildMissingExport(t *testing.T) {
	root := writeSite(t)
	if err := os.Remove(filepath.Join(root, "exports", "doc.html")); err != nil {
		t.Fatal(err)
	}
	_, err := Build(context.Background(), BuildOptions{Root: root, OutputDir: t.TempDir()}, nil)
	if err == nil || !strings.Contains(err.Error(), "exports/doc.html") {
		t.Errorf("err = %v", err)
	}
}

func TestBuildSearchIndexTruncates(t *testing.T) {
	long := strings.Repeat("é", maxIndexedContent)
	sections := []segment.Section{{Title: "Long", Slug: "long"}}
	nodes, err := dom.ParseFragment("<p>" + long + "</p>")
	if err != nil {
		t.Fatal(err)
	}
	sections[0].Nodes = nodes

	entries := BuildSearchIndex(sections)
	if len(entries[0].Content) > maxIndexedContent {
		t.Errorf("content length = %d", len(entries[0].Content))
	}
	if !strings.HasPrefix(long, entries[0].Content) {
		t.Errorf("content split a rune")
	}
}
