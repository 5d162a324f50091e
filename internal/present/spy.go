package present

import (
	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/event"
)

// Active band of the viewport, as fractions of its height from the top.
const (
	bandTop    = 0.4
	bandBottom = 0.5
)

// Spy watches headings cross the active band of the viewport and reports
// each one entering it.
type Spy struct {
	view    *Viewport
	targets []*html.Node
	inside  map[*html.Node]bool
	onEnter func(*html.Node)
	sub     *event.Subscription
}

// NewSpy observes targets and evaluates the current offset right away.
func NewSpy(bus *event.Bus, view *Viewport, targets []*html.Node, onEnter func(*html.Node)) *Spy {
	s := &Spy{
		view:    view,
		targets: targets,
		inside:  make(map[*html.Node]bool, len(targets)),
		onEnter: onEnter,
	}
	s.sub = bus.Subscribe(event.KindScroll, func(ev event.Event) {
		s.update(ev.(event.Scroll).Offset)
	})
	s.update(view.Offset())
	return s
}

// InBand reports whether a box spanning [top, top+height) overlaps the
// active band for the given offset and viewport height.
func InBand(top, height, offset, viewport float64) bool {
	lo := offset + viewport*bandTop
	hi := offset + viewport*bandBottom
	return top < hi && top+height > lo
}

func (s *Spy) update(offset float64) {
	if s.sub == nil {
		return
	}
	g := s.view.Geometry()
	if g == nil {
		return
	}
	for _, t := range s.targets {
		in := InBand(g.Top(t), g.Height(t), offset, s.view.Height)
		was := s.inside[t]
		s.inside[t] = in
		if in && !was && s.onEnter != nil {
			s.onEnter(t)
		}
	}
}

// Disconnect stops observing. It is safe to call more than once.
func (s *Spy) Disconnect() {
	if s == nil || s.sub == nil {
		return
	}
	s.sub.Unsubscribe()
	s.sub = nil
}

// Live reports whether the spy still observes.
func (s *Spy) Live() bool {
	return s != nil && s.sub != nil
}
