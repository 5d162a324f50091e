package present

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
)

// TOCEntry is one contents link.
type TOCEntry struct {
	TargetID string
	Label    string
	Level    int
	Link     *html.Node
}

// BuildTOC replaces the children of toc with one link per h2/h3 below
// content, in document order.
func BuildTOC(toc, content *html.Node, link LinkFunc) []TOCEntry {
	if link == nil {
		link = FragmentLink
	}
	var entries []TOCEntry
	var links []*html.Node
	for _, h := range dom.Find(content, "h2, h3") {
		level := dom.HeadingLevel(h)
		id := dom.Attr(h, "id")
		label := HeadingLabel(h)
		a := dom.Element("a", "href", link(id), "class", fmt.Sprintf("toc-link toc-l%d", min(level, 3)))
		a.AppendChild(dom.NewText(label))
		links = append(links, a)
		entries = append(entries, TOCEntry{TargetID: id, Label: label, Level: level, Link: a})
	}
	if toc != nil {
		dom.ReplaceChildren(toc, links...)
	}
	return entries
}

// markActive sets the active class on the entry for id and clears it on
// every other entry.
func markActive(entries []TOCEntry, id string) {
	for _, e := range entries {
		dom.ToggleClass(e.Link, "active", e.TargetID == id)
	}
}
