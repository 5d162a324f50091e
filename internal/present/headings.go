package present

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
	"github.com/playbookhq/playbook/internal/slug"
)

// HeadingSelector matches the headings that get ids and anchors.
const HeadingSelector = "h1, h2, h3, h4"

// LinkFunc builds the href pointing at a heading id.
type LinkFunc func(id string) string

// FragmentLink is the plain in-page link.
func FragmentLink(id string) string { return "#" + id }

// Headings returns the h1–h4 elements below root in document order.
func Headings(root *html.Node) []*html.Node {
	return dom.Find(root, HeadingSelector)
}

// IdentifyHeadings gives every h1–h4 below root a unique id and exactly one
// trailing self-link. Unique existing ids are kept; empty or duplicate ids
// are derived from the heading text. Ids of other elements below root and
// the reserved ids are never reused. Running it twice changes nothing.
func IdentifyHeadings(root *html.Node, reserved []string, link LinkFunc) []*html.Node {
	if link == nil {
		link = FragmentLink
	}
	var ns slug.Namespace
	for _, id := range reserved {
		ns.Reserve(id)
	}
	heads := Headings(root)
	isHeading := make(map[*html.Node]bool, len(heads))
	for _, h := range heads {
		isHeading[h] = true
	}
	dom.Walk(root, func(n *html.Node) bool {
		if n != root && n.Type == html.ElementNode && !isHeading[n] {
			if id := dom.Attr(n, "id"); id != "" {
				ns.Reserve(id)
			}
		}
		return true
	})

	// Authored ids are claimed before any are derived, so a derived id
	// never displaces a later heading's own id.
	kept := make(map[*html.Node]string, len(heads))
	for _, h := range heads {
		if id := strings.TrimSpace(dom.Attr(h, "id")); id != "" && ns.Reserve(id) {
			kept[h] = id
		}
	}

	for _, h := range heads {
		id, ok := kept[h]
		if !ok {
			id = ns.ClaimText(HeadingLabel(h))
		}
		dom.SetAttr(h, "id", id)

		for _, a := range anchorLinks(h) {
			dom.Remove(a)
		}
		a := dom.Element("a", "href", link(id), "class", "anchor-link", "aria-hidden", "true")
		a.AppendChild(dom.NewText(" "))
		h.AppendChild(a)
	}
	return heads
}

// HeadingLabel is the trimmed heading text without its self-link.
func HeadingLabel(h *html.Node) string {
	var b strings.Builder
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if isAnchorLink(c) {
			continue
		}
		b.WriteString(dom.Text(c))
	}
	return strings.TrimSpace(b.String())
}

func anchorLinks(h *html.Node) []*html.Node {
	var out []*html.Node
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if isAnchorLink(c) {
			out = append(out, c)
		}
	}
	return out
}

func isAnchorLink(n *html.Node) bool {
	return dom.IsElement(n, "a") && dom.HasClass(n, "anchor-link")
}
