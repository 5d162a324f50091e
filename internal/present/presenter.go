package present

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
	"github.com/playbookhq/playbook/internal/event"
	"github.com/playbookhq/playbook/internal/prefs"
	"github.com/playbookhq/playbook/internal/route"
)

// Config assembles a Presenter.
type Config struct {
	Page           *Page
	Bus            *event.Bus
	History        History
	Store          prefs.Store
	ThemeKey       string
	ViewportHeight float64
	Search         Highlighter
	Layout         LayoutOptions
	Log            *zap.Logger
}

// DefaultViewportHeight is used when Config leaves it unset.
const DefaultViewportHeight = 800

// Presenter owns the host page. All methods must be called from the one
// goroutine that dispatches events on its bus.
type Presenter struct {
	Page    *Page
	Bus     *event.Bus
	View    *Viewport
	History History
	Theme   *ThemeController
	Search  Highlighter
	Layout  LayoutOptions
	Log     *zap.Logger

	// CrossSection is offered keyboard steps past the first or last
	// heading. It reports whether it handled the step.
	CrossSection func(step int) bool

	link     LinkFunc
	headings []*html.Node
	toc      []TOCEntry
	spy      *Spy
	subs     event.Group
	active   string
	focus    *html.Node
	marks    []*html.Node
}

// New builds a presenter and subscribes it to the bus.
func New(cfg Config) *Presenter {
	if cfg.Page == nil {
		cfg.Page = DefaultPage()
	}
	if cfg.Bus == nil {
		cfg.Bus = event.NewBus()
	}
	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = DefaultViewportHeight
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Layout == (LayoutOptions{}) {
		cfg.Layout = DefaultLayoutOptions
	}
	p := &Presenter{
		Page:    cfg.Page,
		Bus:     cfg.Bus,
		View:    NewViewport(cfg.Bus, cfg.ViewportHeight),
		History: cfg.History,
		Theme:   &ThemeController{Root: cfg.Page.Root(), Store: cfg.Store, Key: cfg.ThemeKey},
		Search:  cfg.Search,
		Layout:  cfg.Layout,
		Log:     cfg.Log,
		link:    FragmentLink,
	}
	p.subs.Add(
		p.Bus.Subscribe(event.KindScroll, p.onScroll),
		p.Bus.Subscribe(event.KindInput, p.onInput),
		p.Bus.Subscribe(event.KindClick, p.onClick),
		p.Bus.Subscribe(event.KindKey, p.onKey),
		p.Bus.Subscribe(event.KindFocus, p.onFocus),
	)
	return p
}

// Close releases every subscription, the spy included.
func (p *Presenter) Close() {
	p.spy.Disconnect()
	p.spy = nil
	p.subs.Close()
}

// Render mounts nodes as the document and runs the full render pass:
// heading ids and anchors, contents list, layout, scroll-spy and, when
// anchor names a mounted element, the deep-link scroll.
func (p *Presenter) Render(nodes []*html.Node, link LinkFunc, anchor string) {
	p.spy.Disconnect()
	p.spy = nil

	doc := p.Page.Mount(MountDoc)
	if doc == nil {
		p.Log.Debug("host page has no document mount", zap.String("id", MountDoc))
		return
	}
	if link == nil {
		link = FragmentLink
	}
	p.link = link

	content := dom.Container(nodes...)
	IdentifyHeadings(content, p.Page.ChromeIDs(), link)
	dom.ReplaceChildren(doc, dom.Children(content)...)

	p.headings = Headings(doc)
	p.active = ""
	p.marks = nil
	p.toc = BuildTOC(p.Page.Mount(MountTOC), doc, link)

	p.View.SetGeometry(EstimateLayout(doc, p.Layout))
	p.View.ScrollTo(0)
	p.spy = NewSpy(p.Bus, p.View, p.headings, p.activate)

	p.Log.Debug("rendered",
		zap.Int("headings", len(p.headings)),
		zap.Int("toc_entries", len(p.toc)),
	)

	if anchor != "" {
		p.ScrollToID(anchor, Instant)
	}
}

// RenderError shows err in place of the content. The contents list is
// left as it was.
func (p *Presenter) RenderError(err error) {
	p.spy.Disconnect()
	p.spy = nil
	p.Log.Warn("render failed", zap.Error(err))

	doc := p.Page.Mount(MountDoc)
	if doc == nil {
		return
	}
	dom.ReplaceChildren(doc, ErrorView(err)...)
	p.headings = nil
	p.active = ""
	p.marks = nil
	p.View.SetGeometry(EstimateLayout(doc, p.Layout))
	p.View.ScrollTo(0)
}

// RenderLanding shows the entry points.
func (p *Presenter) RenderLanding(title string, targets []route.Target) {
	h := dom.Element("h1")
	h.AppendChild(dom.NewText(title))
	list := dom.Element("ul", "class", "entry-points")
	for _, t := range targets {
		li := dom.Element("li")
		var item *html.Node
		if t.Resolved {
			item = dom.Element("a", "class", "entry-point", "href", t.Href(), "title", t.Title)
		} else {
			item = dom.Element("span", "class", "entry-point disabled")
		}
		item.AppendChild(dom.NewText(t.Label))
		li.AppendChild(item)
		list.AppendChild(li)
	}
	p.Render([]*html.Node{h, list}, FragmentLink, "")
}

// ScrollToID scrolls a mounted element into view. It reports whether the
// element exists.
func (p *Presenter) ScrollToID(id string, behavior Behavior) bool {
	target := dom.ByID(p.Page.Mount(MountDoc), id)
	if target == nil {
		return false
	}
	p.View.ScrollIntoView(target, behavior, BlockStart)
	return true
}

// Active returns the id of the active heading.
func (p *Presenter) Active() string { return p.active }

// Headings returns the mounted h1–h4 elements.
func (p *Presenter) Headings() []*html.Node { return p.headings }

// TOC returns the current contents entries.
func (p *Presenter) TOC() []TOCEntry { return p.toc }

// Marks returns the current search highlights.
func (p *Presenter) Marks() []*html.Node { return p.marks }

// Spy returns the live scroll-spy, if any.
func (p *Presenter) Spy() *Spy { return p.spy }

// Focused returns the element holding keyboard focus.
func (p *Presenter) Focused() *html.Node { return p.focus }

// Progress returns the current progress bar style.
func (p *Presenter) Progress() string {
	return dom.Attr(p.Page.Mount(MountProgress), "style")
}

// Activate marks the heading with id active, as the scroll-spy does.
func (p *Presenter) Activate(id string) bool {
	for _, h := range p.headings {
		if dom.Attr(h, "id") == id {
			p.activate(h)
			return true
		}
	}
	return false
}

func (p *Presenter) activate(h *html.Node) {
	id := dom.Attr(h, "id")
	p.active = id
	markActive(p.toc, id)
	if p.History != nil {
		p.History.Replace(p.link(id))
	}
}

func (p *Presenter) onScroll(ev event.Event) {
	g := p.View.Geometry()
	if g == nil {
		return
	}
	f := Fraction(ev.(event.Scroll).Offset, g.ScrollHeight(), p.View.Height)
	renderProgress(p.Page.Mount(MountProgress), f)
}

func (p *Presenter) onInput(ev event.Event) {
	in := ev.(event.Input)
	field := p.Page.Mount(MountSearch)
	if field == nil || (in.Target != nil && in.Target != field) {
		return
	}
	dom.SetAttr(field, "value", in.Value)
	doc := p.Page.Mount(MountDoc)
	p.marks = p.Search.Apply(doc, in.Value)
	if len(p.marks) > 0 {
		p.View.ScrollIntoView(p.marks[0], Smooth, BlockCenter)
	}
}

func (p *Presenter) onClick(ev event.Event) {
	target := ev.(event.Click).Target
	toggle := p.Page.Mount(MountTheme)
	if toggle == nil || target == nil || !(target == toggle || dom.Contains(toggle, target)) {
		return
	}
	t, err := p.Theme.Toggle()
	if err != nil {
		p.Log.Warn("persisting theme", zap.Error(err))
		return
	}
	p.Log.Debug("theme changed", zap.String("theme", string(t)))
}

func (p *Presenter) onFocus(ev event.Event) {
	p.focus = ev.(event.Focus).Target
}

func (p *Presenter) onKey(ev event.Event) {
	k := ev.(event.Key)
	tag := strings.ToLower(k.FocusTag)
	if tag == "" && p.focus != nil {
		tag = p.focus.Data
	}
	switch tag {
	case "input", "textarea", "select":
		return
	}
	switch k.Key {
	case "ArrowRight":
		p.step(1)
	case "ArrowLeft":
		p.step(-1)
	case "/":
		if field := p.Page.Mount(MountSearch); field != nil {
			p.focus = field
		}
	}
}

// step moves the active heading by one. With no active heading it goes
// to the first one.
func (p *Presenter) step(dir int) {
	if len(p.headings) == 0 {
		if p.CrossSection != nil {
			p.CrossSection(dir)
		}
		return
	}
	next := 0
	for i, h := range p.headings {
		if dom.Attr(h, "id") == p.active && p.active != "" {
			next = i + dir
			break
		}
	}
	if next < 0 || next >= len(p.headings) {
		if p.CrossSection != nil && p.CrossSection(dir) {
			return
		}
		next = max(0, min(next, len(p.headings)-1))
	}
	h := p.headings[next]
	p.View.ScrollIntoView(h, Smooth, BlockStart)
	p.activate(h)
}
