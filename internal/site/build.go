package site

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/playbookhq/playbook/internal/logging"
	"github.com/playbookhq/playbook/internal/manifest"
	"github.com/playbookhq/playbook/internal/present"
	"github.com/playbookhq/playbook/internal/progress"
	"github.com/playbookhq/playbook/internal/segment"
)

// BuildOptions configures a dist build.
type BuildOptions struct {
	Root         string
	Manifest     string
	SectionsFile string
	OutputDir    string
	Assets       []string
	Sectionizer  *Sectionizer
	Now          func() time.Time
}

// BuildResult reports what a build wrote, relative to the output directory.
type BuildResult struct {
	Files    []string
	Sections int
}

// defaultAssets are generated when the site does not provide them.
// ErrUnsafePath is returned for a file name that would resolve outside
// the site root or the output directory.
var ErrUnsafePath = errors.New("path escapes the site directory")

var defaultAssets = map[string]func() string{
	"index.html": present.DefaultPageHTML,
	"styles.css": func() string { return Stylesheet },
}

// Build copies the site assets, the manifest and every document it points
// to into OutputDir, then writes the precomputed sections file and the
// section search index.
func Build(ctx context.Context, opts BuildOptions, rep progress.Reporter) (BuildResult, error) {
	if rep == nil {
		rep = progress.Nop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Manifest == "" {
		opts.Manifest = "manifest.json"
	}
	if opts.SectionsFile == "" {
		opts.SectionsFile = "data/sections.json"
	}
	if opts.Sectionizer == nil {
		opts.Sectionizer = NewSectionizer(opts.Root, opts.Manifest, nil, segment.Segmenter{})
	}
	log := logging.FromContext(ctx)

	m, err := manifest.ReadFile(filepath.Join(opts.Root, filepath.FromSlash(opts.Manifest)))
	if err != nil {
		return BuildResult{}, fmt.Errorf("reading manifest: %w", err)
	}
	if err := m.Require(manifest.FieldExportHTML); err != nil {
		return BuildResult{}, err
	}

	files := append([]string(nil), opts.Assets...)
	files = append(files, opts.Manifest, m.ExportHTML)
	for _, name := range m.SectionNames() {
		p, _ := m.SectionPath(name)
		files = append(files, p)
	}
	files = dedupe(files)
	for _, name := range files {
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return BuildResult{}, fmt.Errorf("%w: %s", ErrUnsafePath, name)
		}
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return BuildResult{}, fmt.Errorf("creating %s: %w", opts.OutputDir, err)
	}

	var res BuildResult
	rep.Start(len(files) + 1)
	defer rep.Finish()

	for i, name := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rep.Update(i+1, name)
		dst := filepath.Join(opts.OutputDir, filepath.FromSlash(name))
		err := manifest.CopyFile(filepath.Join(opts.Root, filepath.FromSlash(name)), dst)
		if errors.Is(err, os.ErrNotExist) {
			gen, ok := defaultAssets[name]
			if !ok {
				if name == opts.Manifest || name == m.ExportHTML {
					return res, fmt.Errorf("copying %s: %w", name, err)
				}
				log.Warn("asset missing, skipped", zap.String("file", name))
				continue
			}
			err = writeFile(dst, []byte(gen()))
		}
		if err != nil {
			return res, fmt.Errorf("copying %s: %w", name, err)
		}
		res.Files = append(res.Files, name)
	}

	rep.Update(len(files)+1, opts.SectionsFile)
	source, sections, err := opts.Sectionizer.Run(ctx)
	if err != nil {
		return res, fmt.Errorf("sectionizing: %w", err)
	}
	out := filepath.Join(opts.OutputDir, filepath.FromSlash(opts.SectionsFile))
	if err := segment.WriteFile(out, source, sections, opts.Now()); err != nil {
		return res, err
	}
	res.Files = append(res.Files, opts.SectionsFile)
	res.Sections = len(sections)

	index := filepath.Join(opts.OutputDir, filepath.FromSlash(SearchIndexFile))
	if err := WriteSearchIndex(BuildSearchIndex(sections), index); err != nil {
		return res, fmt.Errorf("writing search index: %w", err)
	}
	res.Files = append(res.Files, SearchIndexFile)

	log.Info("build complete",
		zap.String("output", opts.OutputDir),
		zap.Int("files", len(res.Files)),
		zap.Int("sections", res.Sections),
	)
	return res, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func writeFile(dst string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
