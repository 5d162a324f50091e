package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoExports is returned when the exports directory holds no documents.
var ErrNoExports = errors.New("no .html files found in exports directory")

// Workspace locates the manifest and the exports directory of a site root.
type Workspace struct {
	Root       string
	Manifest   string // relative to Root
	ExportsDir string // relative to Root
}

// ManifestPath is the on-disk location of manifest.json.
func (w Workspace) ManifestPath() string {
	return filepath.Join(w.Root, filepath.FromSlash(w.Manifest))
}

// ExportsPath is the on-disk location of the exports directory.
func (w Workspace) ExportsPath() string {
	return filepath.Join(w.Root, filepath.FromSlash(w.ExportsDir))
}

// Export is one exported document found on disk.
type Export struct {
	Name    string
	ModTime time.Time
}

// Pointer is the manifest value referring to this export.
func (w Workspace) Pointer(e Export) string {
	return path.Join(filepath.ToSlash(w.ExportsDir), e.Name)
}

// Exports lists the files in the exports directory whose lowercased name
// matches the glob pattern, newest first.
func (w Workspace) Exports(pattern string) ([]Export, error) {
	entries, err := os.ReadDir(w.ExportsPath())
	if err != nil {
		return nil, fmt.Errorf("reading exports: %w", err)
	}
	pattern = strings.ToLower(pattern)
	var out []Export
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		ok, err := doublestar.Match(pattern, strings.ToLower(e.Name()))
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Export{Name: e.Name(), ModTime: info.ModTime()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].Name > out[j].Name
		}
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out, nil
}

// LatestExport returns the most recently modified .html export.
func (w Workspace) LatestExport() (Export, error) {
	if err := os.MkdirAll(w.ExportsPath(), 0o755); err != nil {
		return Export{}, fmt.Errorf("creating exports dir: %w", err)
	}
	exports, err := w.Exports("*.html")
	if err != nil {
		return Export{}, err
	}
	if len(exports) == 0 {
		return Export{}, ErrNoExports
	}
	return exports[0], nil
}

// UpdatePointer rewrites export_html to the newest export, defaulting the
// title and keeping every other key. It returns the new pointer.
func (w Workspace) UpdatePointer() (string, error) {
	latest, err := w.LatestExport()
	if err != nil {
		return "", err
	}
	doc, err := readDocument(w.ManifestPath())
	if err != nil {
		return "", err
	}
	if _, ok := doc["title"]; !ok {
		doc["title"] = DefaultTitle
	}
	pointer := w.Pointer(latest)
	doc[FieldExportHTML] = pointer
	if err := doc.write(w.ManifestPath()); err != nil {
		return "", err
	}
	return pointer, nil
}

// SetTitle rewrites the manifest title.
func (w Workspace) SetTitle(title string) error {
	doc, err := readDocument(w.ManifestPath())
	if err != nil {
		return err
	}
	doc["title"] = title
	return doc.write(w.ManifestPath())
}

// Ingest copies src into the exports directory under a timestamped name,
// then repoints the manifest at it. An optional title is written too.
// It returns the path of the copied file relative to Root.
func (w Workspace) Ingest(src, title string, now time.Time) (string, error) {
	info, err := os.Stat(src)
	if err != nil || info.IsDir() || !strings.EqualFold(filepath.Ext(src), ".html") {
		return "", fmt.Errorf("input must be an existing .html file: %s", src)
	}
	if err := os.MkdirAll(w.ExportsPath(), 0o755); err != nil {
		return "", fmt.Errorf("creating exports dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	name := fmt.Sprintf("%s-%s.html", stem, now.Format("20060102-150405"))
	dst := filepath.Join(w.ExportsPath(), name)
	if err := CopyFile(src, dst); err != nil {
		return "", err
	}
	// The copy is the newest export by construction; pin its mtime so
	// clock skew on the source cannot reorder it.
	_ = os.Chtimes(dst, now, now)

	if _, err := w.UpdatePointer(); err != nil {
		return "", err
	}
	if title != "" {
		if err := w.SetTitle(title); err != nil {
			return "", err
		}
	}
	return w.Pointer(Export{Name: name}), nil
}

// CopyFile copies src to dst, creating the parent directories of dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	return out.Close()
}
