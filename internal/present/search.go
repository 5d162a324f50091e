package present

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
)

// SearchMode selects how queries are highlighted.
type SearchMode string

const (
	// SearchTerms marks every occurrence of every query term.
	SearchTerms SearchMode = "terms"
	// SearchFirst marks the first occurrence of the whole query in each
	// searchable element, flattening that element's markup.
	SearchFirst SearchMode = "first"
)

// Valid reports whether m is a known mode.
func (m SearchMode) Valid() bool {
	return m == SearchTerms || m == SearchFirst
}

// DefaultMinQuery is the shortest query (in characters) that highlights.
const DefaultMinQuery = 2

const searchable = "h1, h2, h3, h4, p, li"

// HitClass tags the marks a search creates. Marks authored in the
// document lack it and survive clearing.
const HitClass = "search-hit"

// Highlighter wraps query matches in <mark> elements.
type Highlighter struct {
	Mode      SearchMode
	MinLength int
}

func (h Highlighter) minLength() int {
	if h.MinLength <= 0 {
		return DefaultMinQuery
	}
	return h.MinLength
}

// Clear replaces every search mark below root with its text and merges
// the resulting adjacent text nodes.
func (h Highlighter) Clear(root *html.Node) {
	marks := dom.Find(root, "mark."+HitClass)
	if len(marks) == 0 {
		return
	}
	for _, m := range marks {
		if m.Parent == nil {
			continue
		}
		m.Parent.InsertBefore(dom.NewText(dom.Text(m)), m)
		dom.Remove(m)
	}
	dom.Normalize(root)
}

// Apply clears previous marks and highlights query below root. It returns
// the new marks in document order; a query shorter than the minimum
// length only clears.
func (h Highlighter) Apply(root *html.Node, query string) []*html.Node {
	h.Clear(root)
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < h.minLength() {
		return nil
	}
	if h.Mode == SearchFirst {
		return h.first(root, q)
	}
	return h.terms(root, q)
}

func (h Highlighter) terms(root *html.Node, q string) []*html.Node {
	var terms [][]rune
	for _, t := range strings.Fields(q) {
		if utf8.RuneCountInString(t) >= h.minLength() {
			terms = append(terms, lowerRunes(t))
		}
	}
	if len(terms) == 0 {
		return nil
	}

	var texts []*html.Node
	dom.Walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && (isAnchorLink(n) || dom.IsElement(n, "script", "style")) {
			return false
		}
		if n.Type == html.TextNode && insideSearchable(n, root) {
			texts = append(texts, n)
		}
		return true
	})

	var marks []*html.Node
	for _, t := range texts {
		marks = append(marks, markAll(t, terms)...)
	}
	return marks
}

func insideSearchable(n, root *html.Node) bool {
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if dom.HeadingLevel(p) >= 1 && dom.HeadingLevel(p) <= 4 || dom.IsElement(p, "p", "li") {
			return true
		}
	}
	return false
}

// markAll splits text node t around every match of any term.
func markAll(t *html.Node, terms [][]rune) []*html.Node {
	text := []rune(t.Data)
	lower := lowerRunes(t.Data)

	var (
		marks []*html.Node
		parts []*html.Node
		start int
	)
	for i := 0; i < len(lower); {
		n := longestMatch(lower[i:], terms)
		if n == 0 {
			i++
			continue
		}
		if i > start {
			parts = append(parts, dom.NewText(string(text[start:i])))
		}
		m := dom.Element("mark", "class", HitClass)
		m.AppendChild(dom.NewText(string(text[i : i+n])))
		parts = append(parts, m)
		marks = append(marks, m)
		i += n
		start = i
	}
	if len(marks) == 0 {
		return nil
	}
	if start < len(text) {
		parts = append(parts, dom.NewText(string(text[start:])))
	}
	parent := t.Parent
	for _, p := range parts {
		parent.InsertBefore(p, t)
	}
	parent.RemoveChild(t)
	return marks
}

func longestMatch(s []rune, terms [][]rune) int {
	best := 0
	for _, t := range terms {
		if len(t) > best && len(t) <= len(s) && runesEqual(s[:len(t)], t) {
			best = len(t)
		}
	}
	return best
}

func (h Highlighter) first(root *html.Node, q string) []*html.Node {
	needle := lowerRunes(q)
	var marks []*html.Node
	for _, el := range dom.Find(root, searchable) {
		if !dom.Contains(root, el) {
			// Flattened away by an enclosing match.
			continue
		}
		anchors := anchorLinks(el)
		text := []rune(HeadingLabelRaw(el))
		idx := indexRunes(lowerRunes(string(text)), needle)
		if idx < 0 {
			continue
		}
		m := dom.Element("mark", "class", HitClass)
		m.AppendChild(dom.NewText(string(text[idx : idx+len(needle)])))
		dom.ReplaceChildren(el,
			dom.NewText(string(text[:idx])),
			m,
			dom.NewText(string(text[idx+len(needle):])),
		)
		for _, a := range anchors {
			el.AppendChild(a)
		}
		dom.Normalize(el)
		marks = append(marks, m)
	}
	return marks
}

// HeadingLabelRaw is the untrimmed text of n without self-links.
func HeadingLabelRaw(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !isAnchorLink(c) {
			b.WriteString(dom.Text(c))
		}
	}
	return b.String()
}

func lowerRunes(s string) []rune {
	r := []rune(s)
	for i, c := range r {
		r[i] = unicode.ToLower(c)
	}
	return r
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func indexRunes(s, sub []rune) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if runesEqual(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
