package route

import (
	"strings"

	"github.com/playbookhq/playbook/internal/segment"
)

// EntryPoint is one labeled link on the landing view.
type EntryPoint struct {
	Label string
	// Match is the primary keyword; the lowercased label when empty.
	Match string
	// Fallback keywords are tried when Match finds nothing.
	Fallback []string
}

// DefaultEntryPoints are the fixed landing links.
var DefaultEntryPoints = []EntryPoint{
	{Label: "Scale"},
	{Label: "Hire"},
	{Label: "Train"},
	{Label: "Reflect", Fallback: []string{"retrospective", "review"}},
}

// Target is an entry point resolved against the loaded sections.
type Target struct {
	EntryPoint
	Slug     string
	Title    string
	Resolved bool
}

// Href links to the resolved section, or "" when unresolved.
func (t Target) Href() string {
	if !t.Resolved {
		return ""
	}
	return SectionHref(t.Slug, "")
}

// Resolve picks the best section for every entry point, in order: exact
// slug, then slug or title substring, then each fallback keyword.
// Unresolved entries are kept so the landing view can show them disabled.
func Resolve(entries []EntryPoint, sections []segment.Section) []Target {
	out := make([]Target, len(entries))
	for i, e := range entries {
		out[i] = Target{EntryPoint: e}
		key := keyword(e.Match)
		if key == "" {
			key = keyword(e.Label)
		}
		s, ok := exact(key, sections)
		if !ok {
			s, ok = contains(key, sections)
		}
		for _, fb := range e.Fallback {
			if ok {
				break
			}
			s, ok = contains(keyword(fb), sections)
		}
		if ok {
			out[i].Slug, out[i].Title, out[i].Resolved = s.Slug, s.Title, true
		}
	}
	return out
}

func keyword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func exact(key string, sections []segment.Section) (segment.Section, bool) {
	if key == "" {
		return segment.Section{}, false
	}
	for _, s := range sections {
		if s.Slug == key {
			return s, true
		}
	}
	return segment.Section{}, false
}

func contains(key string, sections []segment.Section) (segment.Section, bool) {
	if key == "" {
		return segment.Section{}, false
	}
	for _, s := range sections {
		if strings.Contains(s.Slug, key) || strings.Contains(strings.ToLower(s.Title), key) {
			return s, true
		}
	}
	return segment.Section{}, false
}
