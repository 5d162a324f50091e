// Package loader retrieves the manifest and the documents it points to.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/playbookhq/playbook/internal/logging"
	"github.com/playbookhq/playbook/internal/manifest"
	"github.com/playbookhq/playbook/internal/segment"
)

// DefaultManifestPath is where the manifest lives relative to the site root.
const DefaultManifestPath = "manifest.json"

// Loader fetches through a Fetcher. It makes exactly one attempt per call.
type Loader struct {
	Fetcher      Fetcher
	ManifestPath string

	mdOnce sync.Once
	md     goldmark.Markdown
}

// New returns a loader reading the default manifest path.
func New(f Fetcher) *Loader {
	return &Loader{Fetcher: f, ManifestPath: DefaultManifestPath}
}

func (l *Loader) manifestPath() string {
	if l.ManifestPath == "" {
		return DefaultManifestPath
	}
	return l.ManifestPath
}

// Manifest fetches and decodes the manifest. Any failure is a ManifestError.
func (l *Loader) Manifest(ctx context.Context) (*manifest.Manifest, error) {
	p := l.manifestPath()
	data, err := l.Fetcher.Fetch(ctx, p)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ManifestError{Path: p, Err: err}
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return nil, &ManifestError{Path: p, Err: err}
	}
	logging.FromContext(ctx).Debug("manifest loaded",
		zap.String("path", p),
		zap.String("export_html", m.ExportHTML),
		zap.Int("sections", len(m.Sections)),
	)
	return m, nil
}

// Require checks a pointer field of m, reporting a ManifestError naming it.
func (l *Loader) Require(m *manifest.Manifest, field string) error {
	if err := m.Require(field); err != nil {
		return &ManifestError{Path: l.manifestPath(), Field: field, Err: err}
	}
	return nil
}

// Document fetches the raw markup at p. Markdown documents are converted
// to markup first.
func (l *Loader) Document(ctx context.Context, p string) ([]byte, error) {
	data, err := l.Fetcher.Fetch(ctx, p)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, &FetchError{Path: p, Err: err}
	}
	if IsMarkdown(p) {
		out, err := l.markdown(data)
		if err != nil {
			return nil, &FetchError{Path: p, Err: err}
		}
		data = out
	}
	logging.FromContext(ctx).Debug("document fetched", zap.String("path", p), zap.Int("bytes", len(data)))
	return data, nil
}

// Sections reads a precomputed sections file. A missing file yields
// ErrNoSections so callers fall back to segmenting the document.
func (l *Loader) Sections(ctx context.Context, p string) ([]segment.Section, error) {
	data, err := l.Fetcher.Fetch(ctx, p)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var fe *FetchError
		if errors.As(err, &fe) && fe.NotFound() {
			return nil, ErrNoSections
		}
		return nil, err
	}
	sections, err := segment.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	if len(sections) == 0 {
		return nil, ErrNoSections
	}
	return sections, nil
}

// IsMarkdown reports whether p names a Markdown document.
func IsMarkdown(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func (l *Loader) markdown(src []byte) ([]byte, error) {
	l.mdOnce.Do(func() {
		l.md = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		)
	})
	var buf bytes.Buffer
	if err := l.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}
	return buf.Bytes(), nil
}
