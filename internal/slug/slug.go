// Package slug derives stable identifiers from heading and section text.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is used when text slugifies to nothing.
const Fallback = "section"

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Slugify lowercases text, strips everything but ASCII letters, digits,
// whitespace and hyphens, and collapses whitespace runs into hyphens.
// Accented letters are folded to their base letter first.
func Slugify(text string) string {
	folded, _, err := transform.String(fold(), text)
	if err != nil {
		folded = text
	}
	s := strings.ToLower(folded)
	s = disallowed.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = whitespace.ReplaceAllString(s, "-")
	if s == "" {
		return Fallback
	}
	return s
}

func fold() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Namespace hands out unique identifiers. The zero value is ready to use.
type Namespace struct {
	taken map[string]bool
}

// Reserve marks id as taken. It reports false if id was already taken.
func (ns *Namespace) Reserve(id string) bool {
	if ns.taken == nil {
		ns.taken = make(map[string]bool)
	}
	if ns.taken[id] {
		return false
	}
	ns.taken[id] = true
	return true
}

// Taken reports whether id has been handed out or reserved.
func (ns *Namespace) Taken(id string) bool {
	return ns.taken[id]
}

// Claim returns base if free, otherwise the first free base-2, base-3, ...
func (ns *Namespace) Claim(base string) string {
	if base == "" {
		base = Fallback
	}
	if ns.Reserve(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if ns.Reserve(candidate) {
			return candidate
		}
	}
}

// ClaimText slugifies text and claims the result.
func (ns *Namespace) ClaimText(text string) string {
	return ns.Claim(Slugify(text))
}
