package present

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
	"github.com/playbookhq/playbook/internal/event"
	"github.com/playbookhq/playbook/internal/loader"
	"github.com/playbookhq/playbook/internal/prefs"
	"github.com/playbookhq/playbook/internal/route"
)

const article = `<h1>Top</h1><p>x</p><h2>Alpha</h2><p>y</p><h2>Beta</h2><p>z</p>`

func nodes(t *testing.T, markup string) []*html.Node {
	t.Helper()
	n, err := dom.ParseFragment(markup)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	return n
}

func newPresenter(t *testing.T) (*Presenter, *MemoryHistory, *prefs.MemoryStore) {
	t.Helper()
	hist := NewMemoryHistory("")
	store := prefs.NewMemoryStore()
	p := New(Config{
		History:        hist,
		Store:          store,
		ViewportHeight: 100,
		Search:         Highlighter{Mode: SearchTerms},
	})
	t.Cleanup(p.Close)
	return p, hist, store
}

func page(p *Presenter) *goquery.Document {
	return goquery.NewDocumentFromNode(p.Page.Doc)
}

func TestIdentifyHeadings(t *testing.T) {
	root := dom.Container(nodes(t, `<div id="intro"></div><h1 id="intro">Intro</h1><h2 id="keep">A</h2><h2 id="keep">B</h2><h3>Intro</h3><h4></h4>`)...)

	IdentifyHeadings(root, []string{"toc"}, nil)
	IdentifyHeadings(root, []string{"toc"}, nil)

	doc := goquery.NewDocumentFromNode(root)
	var ids []string
	doc.Find("h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		ids = append(ids, id)
		if n := s.ChildrenFiltered("a.anchor-link").Length(); n != 1 {
			t.Errorf("heading %q has %d anchor links", id, n)
		}
		if href, _ := s.ChildrenFiltered("a.anchor-link").Attr("href"); href != "#"+id {
			t.Errorf("anchor href = %q, want #%s", href, id)
		}
	})
	want := []string{"intro-2", "keep", "b", "intro-3", "section"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestIdentifyHeadingsKeepsLaterAuthoredIDs(t *testing.T) {
	root := dom.Container(nodes(t, `<h2>Goals</h2><p>x</p><h2 id="goals">Team goals</h2>`)...)
	heads := IdentifyHeadings(root, nil, nil)

	if got := dom.Attr(heads[1], "id"); got != "goals" {
		t.Errorf("authored id rewritten to %q", got)
	}
	if got := dom.Attr(heads[0], "id"); got != "goals-2" {
		t.Errorf("derived id = %q, want goals-2", got)
	}
}

func TestBuildTOC(t *testing.T) {
	root := dom.Container(nodes(t, `<h1>T</h1><h2>One</h2><h3>Two</h3><h4>Deep</h4><h2>Three</h2>`)...)
	IdentifyHeadings(root, nil, nil)
	toc := dom.Element("nav")
	entries := BuildTOC(toc, root, nil)

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	doc := goquery.NewDocumentFromNode(toc)
	links := doc.Find("a.toc-link")
	if links.Length() != 3 {
		t.Fatalf("rendered %d links", links.Length())
	}
	wantLabels := []string{"One", "Two", "Three"}
	wantClass := []string{"toc-l2", "toc-l3", "toc-l2"}
	links.Each(func(i int, s *goquery.Selection) {
		if s.Text() != wantLabels[i] {
			t.Errorf("label %d = %q", i, s.Text())
		}
		if !s.HasClass(wantClass[i]) {
			t.Errorf("link %d missing %s", i, wantClass[i])
		}
	})

	BuildTOC(toc, root, nil)
	if doc.Find("a").Length() != 3 {
		t.Error("rebuilding appended instead of replacing")
	}
}

func TestRenderMountsAndBuildsTOC(t *testing.T) {
	p, _, _ := newPresenter(t)
	p.Render(nodes(t, article), nil, "")

	doc := page(p)
	if doc.Find("#doc h2").Length() != 2 {
		t.Errorf("mounted %d h2", doc.Find("#doc h2").Length())
	}
	if doc.Find("#doc").Text() == "Loading…" {
		t.Error("placeholder not replaced")
	}
	if doc.Find("#toc a.toc-link").Length() != 2 {
		t.Errorf("toc has %d links", doc.Find("#toc a.toc-link").Length())
	}
	if !p.Spy().Live() {
		t.Error("spy not live after render")
	}
}

func TestSingleSpyAcrossRenders(t *testing.T) {
	p, _, _ := newPresenter(t)
	for i := 0; i < 3; i++ {
		p.Render(nodes(t, article), nil, "")
	}
	// One progress subscription plus one spy.
	if got := p.Bus.Live(event.KindScroll); got != 2 {
		t.Errorf("live scroll subscriptions = %d, want 2", got)
	}
	p.RenderError(errors.New("boom"))
	if got := p.Bus.Live(event.KindScroll); got != 1 {
		t.Errorf("after error render = %d, want 1", got)
	}
}

func TestScrollSpyAndProgress(t *testing.T) {
	p, hist, _ := newPresenter(t)
	p.Render(nodes(t, article), nil, "")

	if p.Active() != "" {
		t.Fatalf("active at top = %q", p.Active())
	}
	if p.Progress() != "width: 0.00%" {
		t.Errorf("progress = %q", p.Progress())
	}

	p.View.ScrollTo(50)
	if p.Active() != "alpha" || hist.Current() != "#alpha" {
		t.Errorf("active = %q, fragment = %q", p.Active(), hist.Current())
	}
	if hist.Len() != 1 {
		t.Errorf("history grew to %d entries", hist.Len())
	}
	if !page(p).Find(`#toc a[href="#alpha"]`).HasClass("active") {
		t.Error("toc entry not marked active")
	}

	p.View.ScrollTo(130)
	if p.Active() != "beta" {
		t.Errorf("active = %q, want beta", p.Active())
	}
	if n := page(p).Find("#toc a.active").Length(); n != 1 {
		t.Errorf("%d active toc entries", n)
	}
	if p.Progress() != "width: 85.53%" {
		t.Errorf("progress = %q", p.Progress())
	}

	p.View.ScrollTo(1e6)
	if p.Progress() != "width: 100.00%" {
		t.Errorf("progress at end = %q", p.Progress())
	}
}

func TestFraction(t *testing.T) {
	tests := []struct {
		offset, height, viewport, want float64
	}{
		{0, 1000, 200, 0},
		{400, 1000, 200, 0.5},
		{900, 1000, 200, 1},
		{-5, 1000, 200, 0},
		{10, 100, 200, 0},
		{0, 200, 200, 0},
	}
	for _, tt := range tests {
		if got := Fraction(tt.offset, tt.height, tt.viewport); got != tt.want {
			t.Errorf("Fraction(%v, %v, %v) = %v, want %v", tt.offset, tt.height, tt.viewport, got, tt.want)
		}
	}
}

func TestDeepLinkRestore(t *testing.T) {
	p, _, _ := newPresenter(t)
	p.Render(nodes(t, article), nil, "beta")

	last := p.View.Last()
	if last.Target == nil || dom.Attr(last.Target, "id") != "beta" {
		t.Fatalf("deep link target = %v", last.Target)
	}
	if last.Behavior != Instant || last.Block != BlockStart {
		t.Errorf("scroll = %s/%s", last.Behavior, last.Block)
	}
	if p.View.Offset() != p.View.MaxOffset() {
		t.Errorf("offset = %v", p.View.Offset())
	}

	p.Render(nodes(t, article), nil, "missing")
	if p.View.Offset() != 0 {
		t.Errorf("unknown anchor scrolled to %v", p.View.Offset())
	}
}

const searchDoc = `<h2>Growth</h2><p>Grow <b>fast</b>, grow far.</p><ul><li>fast lane</li></ul><div>fast outside</div>`

func TestSearchTerms(t *testing.T) {
	p, _, _ := newPresenter(t)
	p.Render(nodes(t, searchDoc), nil, "")

	p.Bus.Dispatch(event.Input{Value: "  grow fast "})

	doc := page(p)
	if n := doc.Find("#doc mark").Length(); n != 5 {
		t.Fatalf("marks = %d, want 5", n)
	}
	if doc.Find("#doc b mark").Text() != "fast" {
		t.Error("markup inside a paragraph was not preserved")
	}
	if doc.Find("#doc div mark").Length() != 0 {
		t.Error("highlighted outside searchable elements")
	}
	if doc.Find("a.anchor-link mark").Length() != 0 {
		t.Error("highlighted inside an anchor link")
	}
	last := p.View.Last()
	if last.Target != p.Marks()[0] || last.Block != BlockCenter || last.Behavior != Smooth {
		t.Errorf("first match not centered: %+v", last)
	}

	p.Bus.Dispatch(event.Input{Value: "g"})
	if doc.Find("mark").Length() != 0 {
		t.Error("short query left marks behind")
	}
	para := doc.Find("#doc p").Nodes[0]
	if got := len(dom.Children(para)); got != 3 {
		t.Errorf("paragraph has %d children after clearing, want 3", got)
	}
	if doc.Find("#doc p").Text() != "Grow fast, grow far." {
		t.Errorf("text changed: %q", doc.Find("#doc p").Text())
	}
}

func TestSearchFirstMode(t *testing.T) {
	p, _, _ := newPresenter(t)
	p.Search = Highlighter{Mode: SearchFirst}
	p.Render(nodes(t, searchDoc), nil, "")

	p.Bus.Dispatch(event.Input{Value: "grow"})

	doc := page(p)
	if n := doc.Find("#doc mark").Length(); n != 2 {
		t.Fatalf("marks = %d, want 2", n)
	}
	if doc.Find("#doc p mark").Text() != "Grow" {
		t.Errorf("paragraph mark = %q", doc.Find("#doc p mark").Text())
	}
	if doc.Find("#doc h2 > a.anchor-link").Length() != 1 {
		t.Error("anchor link lost")
	}
}

func TestSearchKeepsAuthoredMarks(t *testing.T) {
	p, _, _ := newPresenter(t)
	p.Render(nodes(t, `<p>Always <mark class="highlight-yellow">score every loop</mark> the same day.</p>`), nil, "")
	doc := page(p)

	p.Bus.Dispatch(event.Input{Value: "day loop"})
	if got := len(p.Marks()); got != 2 {
		t.Fatalf("marks = %d, want 2", got)
	}
	if doc.Find("#doc mark.highlight-yellow mark."+HitClass).Text() != "loop" {
		t.Error("match inside the authored mark was not highlighted")
	}

	p.Bus.Dispatch(event.Input{Value: ""})
	if n := doc.Find("#doc mark." + HitClass).Length(); n != 0 {
		t.Errorf("%d search marks left after clearing", n)
	}
	authored := doc.Find("#doc mark.highlight-yellow")
	if authored.Length() != 1 || authored.Text() != "score every loop" {
		t.Fatalf("authored mark lost: %s", dom.RenderChildren(p.Page.Mount(MountDoc)))
	}
	if got := len(dom.Children(authored.Nodes[0])); got != 1 {
		t.Errorf("authored mark has %d children after clearing, want 1", got)
	}
	if doc.Find("#doc p").Text() != "Always score every loop the same day." {
		t.Errorf("text changed: %q", doc.Find("#doc p").Text())
	}
}

func TestSearchIgnoresOtherInputs(t *testing.T) {
	p, _, _ := newPresenter(t)
	p.Render(nodes(t, searchDoc), nil, "")
	p.Bus.Dispatch(event.Input{Target: dom.Element("input"), Value: "grow"})
	if len(p.Marks()) != 0 {
		t.Error("input from another field triggered search")
	}
}

func TestThemeToggle(t *testing.T) {
	p, _, store := newPresenter(t)
	toggle := p.Page.Mount(MountTheme)
	root := p.Page.Root()

	want := []struct {
		attr   string
		stored string
	}{
		{"light", "light"},
		{"dark", "dark"},
		{"", ""},
	}
	for i, w := range want {
		p.Bus.Dispatch(event.Click{Target: toggle})
		if got := dom.Attr(root, "data-theme"); got != w.attr {
			t.Errorf("click %d: data-theme = %q, want %q", i+1, got, w.attr)
		}
		v, err := store.Get(DefaultThemeKey)
		if w.stored == "" {
			if !errors.Is(err, prefs.ErrNotFound) {
				t.Errorf("click %d: stored %q, want deleted", i+1, v)
			}
		} else if v != w.stored {
			t.Errorf("click %d: stored %q", i+1, v)
		}
	}
	if dom.HasAttr(root, "data-theme") {
		t.Error("system theme left the attribute in place")
	}
}

func TestThemeRestore(t *testing.T) {
	tests := []struct {
		stored string
		want   Theme
	}{
		{"dark", ThemeDark},
		{"purple", ThemeSystem},
		{"", ThemeSystem},
	}
	for _, tt := range tests {
		store := prefs.NewMemoryStore()
		if tt.stored != "" {
			store.Set(DefaultThemeKey, tt.stored)
		}
		root := dom.Element("html")
		c := &ThemeController{Root: root, Store: store}
		got, err := c.Restore()
		if err != nil {
			t.Fatalf("Restore: %v", err)
		}
		if got != tt.want || c.Current() != tt.want {
			t.Errorf("stored %q: restored %q, current %q", tt.stored, got, c.Current())
		}
	}
}

func TestKeyboardNavigation(t *testing.T) {
	p, hist, _ := newPresenter(t)
	var crossed []int
	p.CrossSection = func(step int) bool {
		crossed = append(crossed, step)
		return false
	}
	p.Render(nodes(t, article), nil, "")

	steps := []string{"top", "alpha", "beta", "beta"}
	for i, want := range steps {
		p.Bus.Dispatch(event.Key{Key: "ArrowRight"})
		if p.Active() != want {
			t.Errorf("step %d: active = %q, want %q", i+1, p.Active(), want)
		}
	}
	if len(crossed) != 1 || crossed[0] != 1 {
		t.Errorf("cross-section calls = %v", crossed)
	}
	if hist.Current() != "#beta" {
		t.Errorf("fragment = %q", hist.Current())
	}

	p.Bus.Dispatch(event.Key{Key: "ArrowLeft"})
	if p.Active() != "alpha" {
		t.Errorf("after ArrowLeft active = %q", p.Active())
	}

	p.Bus.Dispatch(event.Key{Key: "ArrowLeft", FocusTag: "INPUT"})
	if p.Active() != "alpha" {
		t.Error("navigation ran while typing")
	}

	p.Bus.Dispatch(event.Key{Key: "/"})
	if p.Focused() != p.Page.Mount(MountSearch) {
		t.Fatal("slash did not focus search")
	}
	p.Bus.Dispatch(event.Key{Key: "ArrowLeft"})
	if p.Active() != "alpha" {
		t.Error("navigation ran while the search field had focus")
	}
	p.Bus.Dispatch(event.Focus{})
	p.Bus.Dispatch(event.Key{Key: "ArrowLeft"})
	if p.Active() != "top" {
		t.Errorf("after blur active = %q", p.Active())
	}
}

type missingSection string

func (m missingSection) Error() string       { return "section not found: " + string(m) }
func (m missingSection) SectionName() string { return string(m) }

func TestRenderErrorKeepsTOC(t *testing.T) {
	p, _, _ := newPresenter(t)
	p.Render(nodes(t, article), nil, "")
	before := dom.RenderChildren(p.Page.Mount(MountTOC))

	tests := []struct {
		err  error
		want string
	}{
		{&loader.FetchError{Path: "exports/x.html", Status: 404}, "failed to load exports/x.html (HTTP 404)"},
		{&loader.ManifestError{Path: "manifest.json", Field: "export_html"}, "export_html"},
		{missingSection("nope"), "nope"},
	}
	for _, tt := range tests {
		p.RenderError(tt.err)
		doc := page(p)
		if !strings.Contains(doc.Find("#doc .error").Text(), tt.want) {
			t.Errorf("%v: message %q lacks %q", tt.err, doc.Find("#doc").Text(), tt.want)
		}
		if got := dom.RenderChildren(p.Page.Mount(MountTOC)); got != before {
			t.Errorf("%v: toc changed", tt.err)
		}
	}
	if href, _ := page(p).Find("#doc a.back-link").Attr("href"); href != "#/" {
		t.Errorf("back link = %q", href)
	}
}

func TestRenderLanding(t *testing.T) {
	p, _, _ := newPresenter(t)
	targets := []route.Target{
		{EntryPoint: route.EntryPoint{Label: "Scale"}, Slug: "scale", Title: "Scale", Resolved: true},
		{EntryPoint: route.EntryPoint{Label: "Train"}},
	}
	p.RenderLanding("Ops", targets)

	doc := page(p)
	if href, _ := doc.Find("#doc a.entry-point").Attr("href"); href != "#/s/scale" {
		t.Errorf("entry href = %q", href)
	}
	if doc.Find("#doc .entry-point.disabled").Text() != "Train" {
		t.Error("unresolved entry not shown disabled")
	}
}

func TestMissingMountPoints(t *testing.T) {
	pg, err := NewPage(strings.NewReader(`<html><body><div id="doc"></div></body></html>`))
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	p := New(Config{Page: pg, ViewportHeight: 100})
	defer p.Close()

	p.Render(nodes(t, article), nil, "")
	p.View.ScrollTo(50)
	p.Bus.Dispatch(event.Input{Value: "alpha"})
	p.Bus.Dispatch(event.Click{Target: pg.Mount(MountDoc)})

	if p.Active() != "alpha" {
		t.Errorf("active = %q", p.Active())
	}
	if len(p.TOC()) != 2 {
		t.Errorf("toc entries = %d", len(p.TOC()))
	}
}

func TestSetChrome(t *testing.T) {
	pg := DefaultPage()
	pg.SetChrome("Ops Playbook", "exports/doc.html")
	doc := goquery.NewDocumentFromNode(pg.Doc)
	if doc.Find("#brandTitle").Text() != "Ops Playbook" || doc.Find("#footerTitle").Text() != "Ops Playbook" {
		t.Error("titles not set")
	}
	if href, _ := doc.Find("#viewRaw").Attr("href"); href != "exports/doc.html" {
		t.Errorf("raw href = %q", href)
	}
}
