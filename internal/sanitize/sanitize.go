// Package sanitize turns raw exported markup into a detached content tree:
// the primary content region without presentation nodes or the export's
// own table of contents.
package sanitize

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
)

// DefaultSelector designates the primary content region of an export.
const DefaultSelector = "article.page"

var tocToken = regexp.MustCompile(`(?i)toc|table[-_]of[-_]contents`)

// Sanitizer strips exported markup down to content nodes.
type Sanitizer struct {
	// Selector picks the primary content subtree; the body is the fallback.
	Selector string
	// Scrub additionally runs a UGC allow-list over the content, dropping
	// scripts and event handler attributes.
	Scrub bool

	once   sync.Once
	policy *bluemonday.Policy
}

// New returns a sanitizer with the default selector.
func New(scrub bool) *Sanitizer {
	return &Sanitizer{Selector: DefaultSelector, Scrub: scrub}
}

// Sanitize parses raw and returns a detached container whose children are
// the content nodes. Reapplying it to its own rendered output is a no-op.
func (s *Sanitizer) Sanitize(raw []byte) (*html.Node, error) {
	doc, err := dom.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	root := s.selectContent(doc)

	for _, n := range dom.Find(root, "style, link") {
		if dom.IsElement(n, "style") || isStylesheet(n) {
			dom.Remove(n)
		}
	}
	RemoveTOC(root)

	nodes := dom.Children(root)
	if s.Scrub {
		nodes, err = s.scrub(root)
		if err != nil {
			return nil, err
		}
	}
	out := dom.Container(nodes...)
	trimBlankEdges(out)
	return out, nil
}

func (s *Sanitizer) selectContent(doc *html.Node) *html.Node {
	selector := s.Selector
	if selector == "" {
		selector = DefaultSelector
	}
	if n := dom.First(doc, selector); n != nil {
		return n
	}
	if body := dom.Body(doc); body != nil {
		return body
	}
	return doc
}

func (s *Sanitizer) scrub(root *html.Node) ([]*html.Node, error) {
	s.once.Do(func() { s.policy = contentPolicy() })
	clean := s.policy.Sanitize(dom.RenderChildren(root))
	nodes, err := dom.ParseFragment(clean)
	if err != nil {
		return nil, fmt.Errorf("reparsing scrubbed content: %w", err)
	}
	return nodes, nil
}

func contentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("article", "section", "nav", "main", "header", "footer", "figure", "figcaption",
		"details", "summary", "mark")
	p.AllowAttrs("class", "role").Globally()
	p.AllowAttrs("loading").OnElements("img")
	p.RequireNoFollowOnLinks(false)
	p.RequireNoFollowOnFullyQualifiedLinks(false)
	return p
}

func isStylesheet(n *html.Node) bool {
	if !dom.IsElement(n, "link") {
		return false
	}
	for _, rel := range strings.Fields(strings.ToLower(dom.Attr(n, "rel"))) {
		if rel == "stylesheet" {
			return true
		}
	}
	return false
}

// RemoveTOC drops table-of-contents-like nodes below root: elements whose
// class or id contains "toc" in any case (or table_of_contents), and
// navigation landmarks.
func RemoveTOC(root *html.Node) {
	var doomed []*html.Node
	dom.Walk(root, func(n *html.Node) bool {
		if n == root || n.Type != html.ElementNode {
			return true
		}
		if IsTOC(n) {
			doomed = append(doomed, n)
			return false
		}
		return true
	})
	for _, n := range doomed {
		dom.Remove(n)
	}
}

// IsTOC reports whether n looks like exported navigation.
func IsTOC(n *html.Node) bool {
	if dom.IsElement(n, "nav") && strings.EqualFold(dom.Attr(n, "role"), "navigation") {
		return true
	}
	for _, c := range dom.Classes(n) {
		if tocToken.MatchString(c) {
			return true
		}
	}
	for _, id := range strings.Fields(dom.Attr(n, "id")) {
		if tocToken.MatchString(id) {
			return true
		}
	}
	return false
}

// trimBlankEdges drops whitespace-only text at both ends; a markup parser
// would discard it anyway when the output is sanitized again.
func trimBlankEdges(n *html.Node) {
	for n.FirstChild != nil && dom.IsBlank(n.FirstChild) {
		n.RemoveChild(n.FirstChild)
	}
	for n.LastChild != nil && dom.IsBlank(n.LastChild) {
		n.RemoveChild(n.LastChild)
	}
}
