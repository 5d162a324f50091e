package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/playbookhq/playbook/internal/config"
	"github.com/playbookhq/playbook/internal/progress"
	"github.com/playbookhq/playbook/internal/segment"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIngestRebuildsSectionsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "manifest.json"), `{"title":"Playbook","export_html":"exports/old.html"}`)
	writeFile(t, filepath.Join(root, "exports", "old.html"), `<article class="page"><h1>Old</h1><p>stale</p></article>`)
	writeFile(t, filepath.Join(root, "data", "sections.json"), `{"sections":[{"title":"Old","slug":"old","html":"<h1>Old</h1>"}]}`)

	src := filepath.Join(t.TempDir(), "new.html")
	writeFile(t, src, `<article class="page"><h1>Fresh</h1><p>a</p><h1>Later</h1><p>b</p></article>`)

	cfg := config.DefaultConfig()
	cfg.Root = root
	now := time.Now().Add(time.Hour)

	res, err := ingest(context.Background(), cfg, src, "", now, progress.Nop{})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if !strings.HasPrefix(res.Pointer, "exports/new-") {
		t.Errorf("pointer = %q", res.Pointer)
	}
	if res.Sections != 2 {
		t.Errorf("sections = %d, want 2", res.Sections)
	}

	data, err := os.ReadFile(filepath.Join(root, "data", "sections.json"))
	if err != nil {
		t.Fatal(err)
	}
	sections, err := segment.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(sections) != 2 || sections[0].Title != "Fresh" || sections[1].Title != "Later" {
		t.Errorf("sections file still stale: %s", data)
	}
	if !strings.Contains(string(data), res.Pointer) {
		t.Errorf("sections file source does not name %s", res.Pointer)
	}
}

func TestIngestRejectsNonHTML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "manifest.json"), `{"title":"Playbook"}`)
	src := filepath.Join(t.TempDir(), "notes.txt")
	writeFile(t, src, "plain")

	cfg := config.DefaultConfig()
	cfg.Root = root
	if _, err := ingest(context.Background(), cfg, src, "", time.Now(), progress.Nop{}); err == nil {
		t.Fatal("expected an error for a non-html input")
	}
	if _, err := os.Stat(filepath.Join(root, "data", "sections.json")); !os.IsNotExist(err) {
		t.Errorf("sections file written after a failed ingest: %v", err)
	}
}
