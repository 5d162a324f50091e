// Package reader drives a presenter from navigation: it loads the
// manifest, fetches and prepares content for the current route and hands
// it to the presenter, one render pass at a time.
package reader

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
	"github.com/playbookhq/playbook/internal/event"
	"github.com/playbookhq/playbook/internal/loader"
	"github.com/playbookhq/playbook/internal/logging"
	"github.com/playbookhq/playbook/internal/manifest"
	"github.com/playbookhq/playbook/internal/present"
	"github.com/playbookhq/playbook/internal/route"
	"github.com/playbookhq/playbook/internal/sanitize"
	"github.com/playbookhq/playbook/internal/segment"
)

// DefaultSectionsFile is the precomputed sections file read in router mode.
const DefaultSectionsFile = "data/sections.json"

// Options configures a Session.
type Options struct {
	Mode         Mode
	SectionsFile string
	EntryPoints  []route.EntryPoint
	Sanitizer    *sanitize.Sanitizer
	Segmenter    segment.Segmenter
}

// State is the externally observable session state.
type State struct {
	Mode          Mode
	Route         route.Route
	Location      route.Location
	Title         string
	Progress      string
	ActiveHeading string
	Theme         present.Theme
	Focus         string
}

// Session is one reader instance bound to a presenter.
type Session struct {
	mu sync.Mutex

	loader *loader.Loader
	pres   *present.Presenter
	opts   Options
	log    *zap.Logger

	ctx      context.Context
	manifest *manifest.Manifest
	sections []segment.Section
	loc      route.Location
	route    route.Route

	gen    uint64
	cancel context.CancelFunc
	closed bool
	// mounted is set while the page shows content rather than an error.
	mounted bool
}

// New binds a session to a loader and presenter.
func New(l *loader.Loader, p *present.Presenter, opts Options) *Session {
	if opts.Mode == "" {
		opts.Mode = ModeSingle
	}
	if opts.SectionsFile == "" {
		opts.SectionsFile = DefaultSectionsFile
	}
	if opts.EntryPoints == nil {
		opts.EntryPoints = route.DefaultEntryPoints
	}
	if opts.Sanitizer == nil {
		opts.Sanitizer = sanitize.New(false)
	}
	s := &Session{loader: l, pres: p, opts: opts, log: p.Log}
	if opts.Mode == ModeRouter {
		p.CrossSection = s.crossSection
	}
	return s
}

// Start loads the manifest, restores the theme and renders the initial
// location. Failures are rendered in place and also returned.
func (s *Session) Start(ctx context.Context, loc route.Location) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.ctx = logging.WithLogger(ctx, s.log)
	if _, err := s.pres.Theme.Restore(); err != nil {
		s.log.Warn("restoring theme", zap.Error(err))
	}
	s.mu.Unlock()

	m, err := s.loader.Manifest(s.ctx)
	s.mu.Lock()
	if err != nil {
		s.pres.RenderError(err)
		s.mu.Unlock()
		return err
	}
	s.manifest = m
	if s.opts.Mode != ModeStandalone {
		s.pres.Page.SetChrome(m.DisplayTitle(), m.ExportHTML)
	} else {
		s.pres.Page.SetChrome(m.DisplayTitle(), "")
	}
	s.mu.Unlock()

	return s.navigate(s.ctx, loc, false)
}

// Navigate moves to loc as a user navigation, adding a history entry. A
// navigation started later wins: this one is canceled and its result
// discarded with ErrSuperseded.
func (s *Session) Navigate(ctx context.Context, loc route.Location) error {
	return s.navigate(ctx, loc, true)
}

// Dispatch delivers one UI event. In the router, hash changes re-route
// like a navigation that adds no history entry; in the other modes they
// only scroll the mounted document to the anchor. Everything else goes to
// the presenter. Events are handled one at a time.
func (s *Session) Dispatch(ev event.Event) {
	if hc, ok := ev.(event.HashChange); ok {
		s.mu.Lock()
		ctx, loc := s.ctx, s.loc.WithFragment(hc.Fragment)
		if s.opts.Mode != ModeRouter && s.mounted && !s.closed {
			s.scrollToFragment(loc)
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := s.navigate(ctx, loc, false); err != nil && !errors.Is(err, ErrSuperseded) {
			s.log.Debug("hash navigation failed", zap.Error(err))
		}
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pres.Bus.Dispatch(ev)
}

// scrollToFragment follows an in-document link. The caller holds s.mu.
func (s *Session) scrollToFragment(loc route.Location) {
	s.loc = loc
	s.route.Anchor = route.Parse(loc.Fragment).Anchor
	if s.route.Anchor != "" {
		s.pres.ScrollToID(s.route.Anchor, present.Smooth)
	}
}

// ScrollBy moves the viewport the way a user scroll would; listeners see
// the resulting scroll event.
func (s *Session) ScrollBy(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	v := s.pres.View
	v.ScrollTo(v.Offset() + delta)
}

// State snapshots the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Mode:          s.opts.Mode,
		Route:         s.route,
		Location:      s.loc,
		Progress:      s.pres.Progress(),
		ActiveHeading: s.pres.Active(),
		Theme:         s.pres.Theme.Current(),
	}
	if s.manifest != nil {
		st.Title = s.manifest.DisplayTitle()
	}
	if f := s.pres.Focused(); f != nil {
		st.Focus = f.Data
		if id := dom.Attr(f, "id"); id != "" {
			st.Focus += "#" + id
		}
	}
	return st
}

// Sections returns the sections known to a router session.
func (s *Session) Sections() []segment.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sections
}

// Presenter exposes the bound presenter. Callers must not use it
// concurrently with Dispatch.
func (s *Session) Presenter() *present.Presenter { return s.pres }

// Close cancels any in-flight navigation and releases all subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.pres.Close()
}

// view is a prepared render pass: either content, the landing view, or an
// error.
type view struct {
	route    route.Route
	nodes    []*html.Node
	link     present.LinkFunc
	anchor   string
	landing  []route.Target
	raw      string
	sections []segment.Section
	err      error
}

func (s *Session) navigate(ctx context.Context, loc route.Location, push bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	m, cached := s.manifest, s.sections
	s.mu.Unlock()
	defer cancel()

	v := s.prepare(ctx, m, cached, loc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.closed {
		s.log.Debug("discarding stale navigation", zap.String("location", loc.String()))
		return ErrSuperseded
	}
	if v.err != nil && ctx.Err() != nil {
		return v.err
	}
	s.loc = loc
	if push && s.pres.History != nil {
		s.pres.History.Push(loc.Fragment)
	}
	s.apply(v)
	return v.err
}

// prepare does all fetching and parsing for loc without touching the page.
func (s *Session) prepare(ctx context.Context, m *manifest.Manifest, cached []segment.Section, loc route.Location) view {
	if m == nil {
		return view{err: &loader.ManifestError{Path: s.loader.ManifestPath, Err: errors.New("not loaded")}}
	}
	switch s.opts.Mode {
	case ModeStandalone:
		r := route.FromQuery(loc.Query)
		r.Anchor = route.Parse(loc.Fragment).Anchor
		src, ok := m.SectionPath(r.Slug)
		if !ok {
			return view{route: r, err: &SectionNotFoundError{Name: r.Slug}}
		}
		nodes, err := s.document(ctx, src)
		return view{route: r, nodes: nodes, anchor: r.Anchor, raw: src, err: err}

	case ModeRouter:
		r := route.Parse(loc.Fragment)
		sections := cached
		if sections == nil {
			var err error
			sections, err = s.loadSections(ctx, m)
			if err != nil {
				return view{route: r, err: err}
			}
		}
		return sectionView(r, sections)

	default:
		if err := s.loader.Require(m, manifest.FieldExportHTML); err != nil {
			return view{err: err}
		}
		r := route.Parse(loc.Fragment)
		nodes, err := s.document(ctx, m.ExportHTML)
		return view{route: r, nodes: nodes, anchor: r.Anchor, err: err}
	}
}

func sectionView(r route.Route, sections []segment.Section) view {
	v := view{route: r, sections: sections}
	if r.Kind == route.Landing {
		return v
	}
	sec, _, ok := segment.Find(sections, r.Slug)
	if !ok {
		v.err = &SectionNotFoundError{Name: r.Slug}
		return v
	}
	slug := sec.Slug
	v.nodes = sec.Clone().Nodes
	v.anchor = r.Anchor
	v.link = func(id string) string { return route.SectionHref(slug, id) }
	return v
}

func (s *Session) document(ctx context.Context, p string) ([]*html.Node, error) {
	raw, err := s.loader.Document(ctx, p)
	if err != nil {
		return nil, err
	}
	content, err := s.opts.Sanitizer.Sanitize(raw)
	if err != nil {
		return nil, err
	}
	return dom.Children(content), nil
}

// loadSections prefers the precomputed file and falls back to segmenting
// the export.
func (s *Session) loadSections(ctx context.Context, m *manifest.Manifest) ([]segment.Section, error) {
	sections, err := s.loader.Sections(ctx, s.opts.SectionsFile)
	if err == nil {
		return sections, nil
	}
	if !errors.Is(err, loader.ErrNoSections) {
		return nil, err
	}
	if err := s.loader.Require(m, manifest.FieldExportHTML); err != nil {
		return nil, err
	}
	raw, err := s.loader.Document(ctx, m.ExportHTML)
	if err != nil {
		return nil, err
	}
	content, err := s.opts.Sanitizer.Sanitize(raw)
	if err != nil {
		return nil, err
	}
	return s.opts.Segmenter.Split(content), nil
}

// apply renders a prepared view. The caller holds s.mu.
func (s *Session) apply(v view) {
	s.route = v.route
	if v.sections != nil {
		s.sections = v.sections
	}
	s.mounted = v.err == nil
	if v.err != nil {
		s.pres.RenderError(v.err)
		return
	}
	if v.raw != "" {
		s.pres.Page.SetChrome(s.manifest.DisplayTitle(), v.raw)
	}
	if s.opts.Mode == ModeRouter && v.route.Kind == route.Landing {
		s.pres.RenderLanding(s.manifest.DisplayTitle(), route.Resolve(s.opts.EntryPoints, s.sections))
		return
	}
	s.pres.Render(v.nodes, v.link, v.anchor)
}

// crossSection moves keyboard navigation into the adjacent section. It
// runs inside Dispatch, so s.mu is already held.
func (s *Session) crossSection(step int) bool {
	if s.route.Kind != route.Section || len(s.sections) == 0 {
		return false
	}
	_, idx, ok := segment.Find(s.sections, s.route.Slug)
	if !ok {
		return false
	}
	next := idx + step
	if next < 0 || next >= len(s.sections) {
		return false
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++

	target := route.Route{Kind: route.Section, Slug: s.sections[next].Slug}
	s.loc = s.loc.WithFragment(target.Fragment())
	if s.pres.History != nil {
		s.pres.History.Push(s.loc.Fragment)
	}
	s.apply(sectionView(target, s.sections))

	heads := s.pres.Headings()
	if len(heads) == 0 {
		return true
	}
	h := heads[0]
	if step < 0 {
		h = heads[len(heads)-1]
	}
	id := dom.Attr(h, "id")
	s.pres.ScrollToID(id, present.Smooth)
	s.pres.Activate(id)
	return true
}
