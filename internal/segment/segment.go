// Package segment splits a sanitized document into named sections at its
// top-level heading boundaries.
package segment

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
	"github.com/playbookhq/playbook/internal/slug"
)

// LeadingPolicy decides what happens to content before the first heading.
type LeadingPolicy string

const (
	// LeadingAttach prepends leading content to the first section.
	LeadingAttach LeadingPolicy = "attach"
	// LeadingSeparate gives leading content its own section.
	LeadingSeparate LeadingPolicy = "separate"
	// LeadingDrop discards leading content.
	LeadingDrop LeadingPolicy = "drop"
)

// Valid reports whether p is a known policy.
func (p LeadingPolicy) Valid() bool {
	switch p {
	case LeadingAttach, LeadingSeparate, LeadingDrop:
		return true
	}
	return false
}

const (
	// DefaultTitle names the single section of a document without headings.
	DefaultTitle = "Document"
	// LeadingTitle names the section created by LeadingSeparate.
	LeadingTitle = "Introduction"
)

// Section is one named slice of the document.
type Section struct {
	Title string
	Slug  string
	Nodes []*html.Node
}

// HTML renders the section content.
func (s Section) HTML() string {
	return dom.RenderNodes(s.Nodes)
}

// Clone returns a section whose nodes are deep copies, safe to mount.
func (s Section) Clone() Section {
	return Section{Title: s.Title, Slug: s.Slug, Nodes: dom.CloneAll(s.Nodes)}
}

// Segmenter splits content trees. The zero value splits at the smallest
// top-level heading level and attaches leading content.
type Segmenter struct {
	// Level is the heading level that starts a section; 0 picks the
	// smallest level present among top-level nodes.
	Level        int
	Leading      LeadingPolicy
	DefaultTitle string
}

// Split scans the children of root in order. Section nodes are the
// children themselves (root is left untouched); clone before mutating.
func (s Segmenter) Split(root *html.Node) []Section {
	children := dom.Children(root)
	level := s.Level
	if level == 0 {
		level = primaryLevel(children)
	}

	var (
		ns       slug.Namespace
		sections []Section
		leading  []*html.Node
		current  *Section
	)
	for _, n := range children {
		if level > 0 && dom.HeadingLevel(n) == level {
			if current != nil {
				sections = append(sections, *current)
			}
			title := strings.TrimSpace(dom.Text(n))
			if title == "" {
				title = fmt.Sprintf("Section %d", len(sections)+1)
			}
			current = &Section{Title: title, Nodes: []*html.Node{n}}
			continue
		}
		if current == nil {
			leading = append(leading, n)
			continue
		}
		current.Nodes = append(current.Nodes, n)
	}
	if current != nil {
		sections = append(sections, *current)
	}

	if len(sections) == 0 {
		title := s.DefaultTitle
		if title == "" {
			title = DefaultTitle
		}
		return []Section{{Title: title, Slug: ns.ClaimText(title), Nodes: children}}
	}

	if hasContent(leading) {
		switch s.Leading {
		case LeadingSeparate:
			sections = append([]Section{{Title: LeadingTitle, Nodes: leading}}, sections...)
		case LeadingDrop:
		default:
			sections[0].Nodes = append(leading, sections[0].Nodes...)
		}
	} else if s.Leading != LeadingDrop {
		// Whitespace before the first heading is kept so the sections
		// still concatenate back to the original children.
		sections[0].Nodes = append(leading, sections[0].Nodes...)
	}

	for i := range sections {
		sections[i].Slug = ns.ClaimText(sections[i].Title)
	}
	return sections
}

// primaryLevel is the smallest heading level among top-level elements,
// or 0 when there is none.
func primaryLevel(nodes []*html.Node) int {
	best := 0
	for _, n := range nodes {
		if l := dom.HeadingLevel(n); l > 0 && (best == 0 || l < best) {
			best = l
		}
	}
	return best
}

func hasContent(nodes []*html.Node) bool {
	for _, n := range nodes {
		if !dom.IsBlank(n) {
			return true
		}
	}
	return false
}

// Find returns the section with the given slug.
func Find(sections []Section, slugName string) (Section, int, bool) {
	for i, s := range sections {
		if s.Slug == slugName {
			return s, i, true
		}
	}
	return Section{}, -1, false
}
