// Package event is the presenter's event surface: typed UI events and a
// synchronous bus whose subscriptions can be torn down explicitly.
package event

import (
	"sync"

	"golang.org/x/net/html"
)

// Kind names an event type.
type Kind string

const (
	KindScroll     Kind = "scroll"
	KindInput      Kind = "input"
	KindClick      Kind = "click"
	KindKey        Kind = "keydown"
	KindFocus      Kind = "focus"
	KindHashChange Kind = "hashchange"
)

// Event is anything the bus can deliver.
type Event interface {
	Kind() Kind
}

// Scroll reports a new viewport offset.
type Scroll struct {
	Offset float64
}

// Input carries the value of a text field after an edit.
type Input struct {
	Target *html.Node
	Value  string
}

// Click activates an element.
type Click struct {
	Target *html.Node
}

// Key is a key press; FocusTag is the lowercased tag of the focused element.
type Key struct {
	Key      string
	FocusTag string
}

// Focus moves keyboard focus to Target (nil blurs).
type Focus struct {
	Target *html.Node
}

// HashChange reports a new URL fragment.
type HashChange struct {
	Fragment string
}

func (Scroll) Kind() Kind     { return KindScroll }
func (Input) Kind() Kind      { return KindInput }
func (Click) Kind() Kind      { return KindClick }
func (Key) Kind() Kind        { return KindKey }
func (Focus) Kind() Kind      { return KindFocus }
func (HashChange) Kind() Kind { return KindHashChange }

// Handler receives one event.
type Handler func(Event)

// Bus delivers events to subscribers synchronously, in subscription order.
// Handlers may subscribe, unsubscribe and dispatch while being called.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[Kind][]*Subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Kind][]*Subscription)}
}

// Subscription is a live handler registration.
type Subscription struct {
	bus     *Bus
	kind    Kind
	id      uint64
	handler Handler
	active  bool
}

// Subscribe registers h for events of kind k.
func (b *Bus) Subscribe(k Kind, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[Kind][]*Subscription)
	}
	b.nextID++
	s := &Subscription{bus: b, kind: k, id: b.nextID, handler: h, active: true}
	b.subs[k] = append(b.subs[k], s)
	return s
}

// Unsubscribe removes the registration. Calling it again is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	list := b.subs[s.kind]
	for i, other := range list {
		if other == s {
			// Copy so a dispatch iterating the old slice is unaffected.
			next := make([]*Subscription, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			b.subs[s.kind] = next
			break
		}
	}
}

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool {
	if s == nil || s.bus == nil {
		return false
	}
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	return s.active
}

// Dispatch delivers ev to the handlers subscribed when it starts. A
// handler unsubscribed by an earlier handler in the same dispatch is
// skipped.
func (b *Bus) Dispatch(ev Event) {
	b.mu.Lock()
	list := b.subs[ev.Kind()]
	b.mu.Unlock()

	for _, s := range list {
		b.mu.Lock()
		active := s.active
		b.mu.Unlock()
		if active {
			s.handler(ev)
		}
	}
}

// Live counts the active subscriptions for k.
func (b *Bus) Live(k Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[k])
}

// Group collects subscriptions so they can be released together.
type Group struct {
	subs []*Subscription
}

// Add records s.
func (g *Group) Add(s ...*Subscription) {
	g.subs = append(g.subs, s...)
}

// Close unsubscribes every recorded subscription.
func (g *Group) Close() {
	for _, s := range g.subs {
		s.Unsubscribe()
	}
	g.subs = nil
}
