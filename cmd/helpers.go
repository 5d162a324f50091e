package cmd

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/playbookhq/playbook/internal/config"
	"github.com/playbookhq/playbook/internal/event"
	"github.com/playbookhq/playbook/internal/loader"
	"github.com/playbookhq/playbook/internal/logging"
	"github.com/playbookhq/playbook/internal/manifest"
	"github.com/playbookhq/playbook/internal/prefs"
	"github.com/playbookhq/playbook/internal/present"
	"github.com/playbookhq/playbook/internal/reader"
	"github.com/playbookhq/playbook/internal/route"
	"github.com/playbookhq/playbook/internal/sanitize"
	"github.com/playbookhq/playbook/internal/segment"
	"github.com/playbookhq/playbook/internal/site"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `playbook init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newLogger builds the CLI logger and a context carrying it.
func newLogger(cfg *config.Config) (*zap.Logger, context.Context, error) {
	log, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return log, logging.WithLogger(context.Background(), log), nil
}

func workspace(cfg *config.Config) manifest.Workspace {
	return manifest.Workspace{Root: cfg.Root, Manifest: cfg.Manifest, ExportsDir: cfg.ExportsDir}
}

func newSanitizer(cfg *config.Config) *sanitize.Sanitizer {
	s := sanitize.New(cfg.Scrub)
	if cfg.ContentSelector != "" {
		s.Selector = cfg.ContentSelector
	}
	return s
}

func newSegmenter(cfg *config.Config) segment.Segmenter {
	return segment.Segmenter{
		Level:        cfg.Segment.Level,
		Leading:      segment.LeadingPolicy(cfg.Segment.Leading),
		DefaultTitle: cfg.Segment.DefaultTitle,
	}
}

func newSectionizer(cfg *config.Config) *site.Sectionizer {
	return site.NewSectionizer(cfg.Root, cfg.Manifest, newSanitizer(cfg), newSegmenter(cfg))
}

func entryPoints(cfg *config.Config) []route.EntryPoint {
	if len(cfg.EntryPoints) == 0 {
		return nil
	}
	out := make([]route.EntryPoint, len(cfg.EntryPoints))
	for i, ep := range cfg.EntryPoints {
		out[i] = route.EntryPoint{Label: ep.Label, Match: ep.Match, Fallback: ep.Fallback}
	}
	return out
}

// openStore opens the preference database. An empty db_path keeps
// preferences in memory for this run only.
func openStore(cfg *config.Config) (prefs.Store, func(), error) {
	if cfg.Theme.DBPath == "" {
		return prefs.NewMemoryStore(), func() {}, nil
	}
	db, err := prefs.Open(cfg.Path(cfg.Theme.DBPath))
	if err != nil {
		return nil, nil, fmt.Errorf("opening preferences: %w", err)
	}
	return db, func() { db.Close() }, nil
}

// newFetcher reads the site from baseURL when given, else from the
// configured root directory.
func newFetcher(cfg *config.Config, baseURL string) (loader.Fetcher, error) {
	if baseURL != "" {
		return loader.NewHTTPFetcher(baseURL)
	}
	return loader.DirFetcher{FS: os.DirFS(cfg.Root)}, nil
}

// headless is a reader session with everything it was built from.
type headless struct {
	session *reader.Session
	pres    *present.Presenter
	history *present.MemoryHistory
	closeFn func()
}

func (h *headless) Close() {
	h.session.Close()
	h.closeFn()
}

// newHeadless builds a session over the configured site. baseURL, when
// set, reads the site over HTTP instead.
func newHeadless(cfg *config.Config, log *zap.Logger, baseURL string) (*headless, error) {
	mode, err := reader.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	fetcher, err := newFetcher(cfg, baseURL)
	if err != nil {
		return nil, err
	}
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	l := loader.New(fetcher)
	l.ManifestPath = cfg.Manifest

	layout := present.DefaultLayoutOptions
	if cfg.Viewport.LineHeight > 0 {
		layout.LineHeight = cfg.Viewport.LineHeight
	}
	if cfg.Viewport.CharsPerLine > 0 {
		layout.CharsPerLine = cfg.Viewport.CharsPerLine
	}

	hist := present.NewMemoryHistory("")
	pres := present.New(present.Config{
		Bus:            event.NewBus(),
		History:        hist,
		Store:          store,
		ThemeKey:       cfg.Theme.StorageKey,
		ViewportHeight: cfg.Viewport.Height,
		Search:         present.Highlighter{Mode: present.SearchMode(cfg.Search.Mode), MinLength: cfg.Search.MinLength},
		Layout:         layout,
		Log:            log,
	})
	session := reader.New(l, pres, reader.Options{
		Mode:         mode,
		SectionsFile: cfg.SectionsFile,
		EntryPoints:  entryPoints(cfg),
		Sanitizer:    newSanitizer(cfg),
		Segmenter:    newSegmenter(cfg),
	})
	return &headless{session: session, pres: pres, history: hist, closeFn: closeStore}, nil
}
