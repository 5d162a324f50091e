package present

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
	"github.com/playbookhq/playbook/internal/event"
)

// Geometry reports vertical positions of mounted nodes, relative to the
// top of the content.
type Geometry interface {
	Top(n *html.Node) float64
	Height(n *html.Node) float64
	ScrollHeight() float64
}

// LayoutOptions tunes EstimateLayout.
type LayoutOptions struct {
	LineHeight   float64
	CharsPerLine int
	BlockGap     float64
}

// DefaultLayoutOptions approximates a reading column at 16px.
var DefaultLayoutOptions = LayoutOptions{LineHeight: 24, CharsPerLine: 80, BlockGap: 12}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "details": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "figure": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "summary": true, "table": true, "tbody": true, "thead": true,
	"tr": true, "ul": true,
}

type box struct {
	top, height float64
}

// Layout is an estimated block layout of a content tree.
type Layout struct {
	opts   LayoutOptions
	root   *html.Node
	boxes  map[*html.Node]box
	height float64
}

// EstimateLayout stacks the block elements below root top to bottom,
// sizing each from its text length. It stands in for a rendering engine
// when presenting headlessly.
func EstimateLayout(root *html.Node, opts LayoutOptions) *Layout {
	if opts.LineHeight <= 0 {
		opts.LineHeight = DefaultLayoutOptions.LineHeight
	}
	if opts.CharsPerLine <= 0 {
		opts.CharsPerLine = DefaultLayoutOptions.CharsPerLine
	}
	if opts.BlockGap < 0 {
		opts.BlockGap = 0
	}
	l := &Layout{opts: opts, root: root, boxes: make(map[*html.Node]box)}
	l.height = l.placeChildren(root, 0)
	l.boxes[root] = box{top: 0, height: l.height}
	return l
}

func (l *Layout) place(n *html.Node, y float64) float64 {
	if !hasBlockChild(n) {
		h := l.textHeight(n)
		l.boxes[n] = box{top: y, height: h}
		return y + h + l.opts.BlockGap
	}
	end := l.placeChildren(n, y)
	l.boxes[n] = box{top: y, height: end - y}
	return end
}

func (l *Layout) placeChildren(n *html.Node, y float64) float64 {
	var inline strings.Builder
	flush := func() {
		if strings.TrimSpace(inline.String()) != "" {
			y += l.lines(inline.String())*l.opts.LineHeight + l.opts.BlockGap
		}
		inline.Reset()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isBlock(c) {
			flush()
			y = l.place(c, y)
			continue
		}
		inline.WriteString(dom.Text(c))
	}
	flush()
	return y
}

func (l *Layout) textHeight(n *html.Node) float64 {
	if dom.IsElement(n, "hr") {
		return l.opts.LineHeight / 2
	}
	text := dom.Text(n)
	lines := l.lines(text)
	if dom.IsElement(n, "pre") {
		lines = float64(strings.Count(strings.TrimRight(text, "\n"), "\n") + 1)
	}
	if lvl := dom.HeadingLevel(n); lvl > 0 && lvl <= 3 {
		return lines * l.opts.LineHeight * 1.5
	}
	return lines * l.opts.LineHeight
}

func (l *Layout) lines(text string) float64 {
	n := utf8.RuneCountInString(strings.Join(strings.Fields(text), " "))
	return math.Max(1, math.Ceil(float64(n)/float64(l.opts.CharsPerLine)))
}

func isBlock(n *html.Node) bool {
	return n.Type == html.ElementNode && blockTags[n.Data]
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isBlock(c) {
			return true
		}
	}
	return false
}

// lookup finds the box of n or of its nearest placed ancestor.
func (l *Layout) lookup(n *html.Node) (box, bool) {
	for ; n != nil; n = n.Parent {
		if b, ok := l.boxes[n]; ok {
			return b, true
		}
	}
	return box{}, false
}

func (l *Layout) Top(n *html.Node) float64 {
	b, _ := l.lookup(n)
	return b.top
}

func (l *Layout) Height(n *html.Node) float64 {
	b, _ := l.lookup(n)
	return b.height
}

func (l *Layout) ScrollHeight() float64 { return l.height }

// Behavior is the scroll animation requested by a caller.
type Behavior string

const (
	Smooth  Behavior = "smooth"
	Instant Behavior = "instant"
)

// Block is the alignment of a scrolled-to element within the viewport.
type Block string

const (
	BlockStart  Block = "start"
	BlockCenter Block = "center"
)

// ScrollRecord describes the last ScrollIntoView request.
type ScrollRecord struct {
	Target   *html.Node
	Behavior Behavior
	Block    Block
}

// Viewport is the visible window over the mounted content. Every offset
// change is published as an event.Scroll.
type Viewport struct {
	Height float64

	bus    *event.Bus
	geom   Geometry
	offset float64
	last   ScrollRecord
}

// NewViewport returns a viewport of the given height publishing on bus.
func NewViewport(bus *event.Bus, height float64) *Viewport {
	return &Viewport{Height: height, bus: bus}
}

// SetGeometry installs the layout of newly mounted content.
func (v *Viewport) SetGeometry(g Geometry) { v.geom = g }

// Geometry returns the current layout.
func (v *Viewport) Geometry() Geometry { return v.geom }

// Offset is the current scroll position.
func (v *Viewport) Offset() float64 { return v.offset }

// Last returns the most recent ScrollIntoView request.
func (v *Viewport) Last() ScrollRecord { return v.last }

// MaxOffset is the largest reachable offset.
func (v *Viewport) MaxOffset() float64 {
	if v.geom == nil {
		return 0
	}
	return math.Max(0, v.geom.ScrollHeight()-v.Height)
}

// ScrollTo moves to offset, clamped to the scrollable range.
func (v *Viewport) ScrollTo(offset float64) {
	v.offset = math.Max(0, math.Min(offset, v.MaxOffset()))
	if v.bus != nil {
		v.bus.Dispatch(event.Scroll{Offset: v.offset})
	}
}

// ScrollIntoView scrolls so n sits at the requested alignment.
func (v *Viewport) ScrollIntoView(n *html.Node, behavior Behavior, block Block) {
	if n == nil || v.geom == nil {
		return
	}
	v.last = ScrollRecord{Target: n, Behavior: behavior, Block: block}
	top := v.geom.Top(n)
	if block == BlockCenter {
		top = top + v.geom.Height(n)/2 - v.Height/2
	}
	v.ScrollTo(top)
}
