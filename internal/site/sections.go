package site

import (
	"context"
	"os"
	"time"

	"github.com/playbookhq/playbook/internal/loader"
	"github.com/playbookhq/playbook/internal/manifest"
	"github.com/playbookhq/playbook/internal/sanitize"
	"github.com/playbookhq/playbook/internal/segment"
)

// Sectionizer produces the precomputed sections of the export the manifest
// points to.
type Sectionizer struct {
	Loader    *loader.Loader
	Sanitizer *sanitize.Sanitizer
	Segmenter segment.Segmenter
}

// NewSectionizer reads the manifest and exports below root.
func NewSectionizer(root, manifestPath string, san *sanitize.Sanitizer, seg segment.Segmenter) *Sectionizer {
	l := loader.New(loader.DirFetcher{FS: os.DirFS(root)})
	if manifestPath != "" {
		l.ManifestPath = manifestPath
	}
	if san == nil {
		san = sanitize.New(false)
	}
	return &Sectionizer{Loader: l, Sanitizer: san, Segmenter: seg}
}

// Run returns the export pointer and its sections.
func (s *Sectionizer) Run(ctx context.Context) (string, []segment.Section, error) {
	m, err := s.Loader.Manifest(ctx)
	if err != nil {
		return "", nil, err
	}
	if err := s.Loader.Require(m, manifest.FieldExportHTML); err != nil {
		return "", nil, err
	}
	raw, err := s.Loader.Document(ctx, m.ExportHTML)
	if err != nil {
		return "", nil, err
	}
	root, err := s.Sanitizer.Sanitize(raw)
	if err != nil {
		return "", nil, err
	}
	return m.ExportHTML, s.Segmenter.Split(root), nil
}

// Encode runs the sectionizer and serializes the result.
func (s *Sectionizer) Encode(ctx context.Context, now time.Time) ([]byte, error) {
	source, sections, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}
	return segment.Encode(source, sections, now)
}
