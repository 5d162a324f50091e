// Package present mounts sections into a host page and keeps the reading
// aids (contents list, scroll-spy, progress, search, theme, keyboard
// navigation) consistent with what is mounted.
package present

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
)

// Mount point ids on the host page.
const (
	MountDoc         = "doc"
	MountTOC         = "toc"
	MountProgress    = "progressBar"
	MountSearch      = "docSearch"
	MountTheme       = "themeToggle"
	MountBrandTitle  = "brandTitle"
	MountFooterTitle = "footerTitle"
	MountDownloadRaw = "downloadRaw"
	MountViewRaw     = "viewRaw"
)

// Page is the parsed host page.
type Page struct {
	Doc *html.Node
}

// NewPage parses a host page.
func NewPage(r io.Reader) (*Page, error) {
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Page{Doc: doc}, nil
}

// DefaultPage returns a fresh copy of the built-in host page.
func DefaultPage() *Page {
	p, err := NewPage(strings.NewReader(hostPage))
	if err != nil {
		panic("present: default host page: " + err.Error())
	}
	return p
}

// DefaultPageHTML is the markup of the built-in host page.
func DefaultPageHTML() string { return hostPage }

// Mount returns the element with the given id, or nil when the page has
// no such mount point.
func (p *Page) Mount(id string) *html.Node {
	if p == nil {
		return nil
	}
	return dom.ByID(p.Doc, id)
}

// Root returns the <html> element.
func (p *Page) Root() *html.Node {
	if n := dom.First(p.Doc, "html"); n != nil {
		return n
	}
	return p.Doc
}

// HTML serializes the whole page.
func (p *Page) HTML() string {
	return dom.Render(p.Doc)
}

// ChromeIDs lists the ids used on the page outside the content mount.
func (p *Page) ChromeIDs() []string {
	docMount := p.Mount(MountDoc)
	var ids []string
	dom.Walk(p.Doc, func(n *html.Node) bool {
		if n == docMount {
			return false
		}
		if id := dom.Attr(n, "id"); n.Type == html.ElementNode && id != "" {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// SetChrome fills in the titles and the raw-export links. Missing mount
// points are skipped.
func (p *Page) SetChrome(title, rawHref string) {
	for _, id := range []string{MountBrandTitle, MountFooterTitle} {
		if n := p.Mount(id); n != nil {
			dom.SetText(n, title)
		}
	}
	if t := dom.First(p.Doc, "head > title"); t != nil {
		dom.SetText(t, title)
	}
	if rawHref == "" {
		return
	}
	for _, id := range []string{MountDownloadRaw, MountViewRaw} {
		if n := p.Mount(id); n != nil {
			dom.SetAttr(n, "href", rawHref)
		}
	}
}
