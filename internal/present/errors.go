package present

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
	"github.com/playbookhq/playbook/internal/loader"
)

// NotFound is implemented by errors for an unknown section.
type NotFound interface {
	error
	SectionName() string
}

// ErrorView builds the inline message shown in place of content.
func ErrorView(err error) []*html.Node {
	var (
		me *loader.ManifestError
		fe *loader.FetchError
		nf NotFound
	)
	switch {
	case errors.As(err, &me):
		p := dom.Element("p", "class", "error error-manifest")
		if me.Field != "" {
			p.AppendChild(dom.NewText(fmt.Sprintf("Missing %s or %s pointer.", me.Path, me.Field)))
		} else {
			p.AppendChild(dom.NewText(fmt.Sprintf("Could not load %s: %v", me.Path, me.Err)))
		}
		return []*html.Node{p}

	case errors.As(err, &fe):
		pre := dom.Element("pre", "class", "error error-fetch")
		pre.AppendChild(dom.NewText(fe.Error()))
		return []*html.Node{pre}

	case errors.As(err, &nf):
		p := dom.Element("p", "class", "error error-not-found")
		p.AppendChild(dom.NewText("Section not found: "))
		code := dom.Element("code")
		code.AppendChild(dom.NewText(nf.SectionName()))
		p.AppendChild(code)
		p.AppendChild(dom.NewText(". "))
		back := dom.Element("a", "href", "#/", "class", "back-link")
		back.AppendChild(dom.NewText("Back to all sections"))
		p.AppendChild(back)
		return []*html.Node{p}
	}

	p := dom.Element("p", "class", "error")
	p.AppendChild(dom.NewText(err.Error()))
	return []*html.Node{p}
}
