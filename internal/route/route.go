// Package route parses and formats the visible URL state: the fragment
// grammar of the router variant and the section query of the standalone
// reader.
package route

import (
	"net/url"
	"strings"
)

// Kind is the navigation state selected by a route.
type Kind int

const (
	// Landing shows the entry points (or, outside the router, the whole document).
	Landing Kind = iota
	// Section shows one section.
	Section
)

func (k Kind) String() string {
	if k == Section {
		return "section"
	}
	return "landing"
}

const sectionPrefix = "/s/"

// Route is the parsed navigation target.
type Route struct {
	Kind Kind
	Slug string
	// Anchor is a heading id to scroll to after rendering.
	Anchor string
}

// Parse reads a URL fragment, with or without the leading '#'.
//
//	#/s/<slug>           section
//	#/s/<slug>/<anchor>  section, then scroll to anchor
//	anything else        landing; the text is kept as Anchor
func Parse(fragment string) Route {
	f := strings.TrimPrefix(fragment, "#")
	if rest, ok := strings.CutPrefix(f, sectionPrefix); ok {
		slug, anchor, _ := strings.Cut(rest, "/")
		slug = unescape(slug)
		if slug != "" {
			return Route{Kind: Section, Slug: slug, Anchor: unescape(anchor)}
		}
		return Route{Kind: Landing}
	}
	return Route{Kind: Landing, Anchor: unescape(f)}
}

// FromQuery reads section=<name> from a raw query string. The name is
// lowercased; a missing name yields a Landing route.
func FromQuery(rawQuery string) Route {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return Route{Kind: Landing}
	}
	name := strings.ToLower(strings.TrimSpace(values.Get("section")))
	if name == "" {
		return Route{Kind: Landing}
	}
	return Route{Kind: Section, Slug: name}
}

// Fragment formats r back into a fragment including '#', or "" for a bare
// landing route.
func (r Route) Fragment() string {
	if r.Kind == Section {
		return SectionHref(r.Slug, r.Anchor)
	}
	if r.Anchor == "" {
		return ""
	}
	return "#" + r.Anchor
}

// SectionHref links to a section and optionally a heading inside it.
func SectionHref(slug, anchor string) string {
	href := "#" + sectionPrefix + url.PathEscape(slug)
	if anchor != "" {
		href += "/" + url.PathEscape(anchor)
	}
	return href
}

func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

// Location is the address bar: query string and fragment.
type Location struct {
	Query    string
	Fragment string
}

// ParseLocation accepts a full URL or a relative one such as
// "?section=hire#goals" or "#/s/scale".
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, err
	}
	loc := Location{Query: u.RawQuery}
	if u.Fragment != "" || strings.Contains(raw, "#") {
		loc.Fragment = "#" + u.EscapedFragment()
	}
	return loc, nil
}

// String formats the location as a relative reference.
func (l Location) String() string {
	var b strings.Builder
	if l.Query != "" {
		b.WriteString("?")
		b.WriteString(strings.TrimPrefix(l.Query, "?"))
	}
	if l.Fragment != "" && l.Fragment != "#" {
		if !strings.HasPrefix(l.Fragment, "#") {
			b.WriteString("#")
		}
		b.WriteString(l.Fragment)
	}
	return b.String()
}

// WithFragment returns a copy of l pointing at fragment.
func (l Location) WithFragment(fragment string) Location {
	l.Fragment = fragment
	return l
}
