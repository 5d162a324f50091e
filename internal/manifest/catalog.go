package manifest

import (
	"fmt"
	"sort"
)

// DefaultCatalogTitle is written by Catalog when no title is configured.
const DefaultCatalogTitle = "Scale, Hire, Train, Reflect"

// DefaultCatalogTargets maps section names to export filename globs.
// Matching is case-insensitive.
var DefaultCatalogTargets = map[string]string{
	"scale":      "scale*.html",
	"hire":       "hire*.html",
	"train":      "train*.html",
	"reflect":    "reflect*.html",
	"fire":       "fire*.html",
	"references": "references*.html",
}

// DefaultCatalogRequired are the targets Catalog warns about when missing.
var DefaultCatalogRequired = []string{"scale", "hire", "train", "reflect"}

// CatalogResult is what Catalog wrote.
type CatalogResult struct {
	Sections map[string]string
	Missing  []string
}

// Catalog picks the newest export for every target and writes them as the
// manifest's sections map, together with the title. Required targets with
// no match are reported in Missing.
func (w Workspace) Catalog(title string, targets map[string]string, required []string) (CatalogResult, error) {
	if len(targets) == 0 {
		targets = DefaultCatalogTargets
	}
	if title == "" {
		title = DefaultCatalogTitle
	}

	keys := make([]string, 0, len(targets))
	for k := range targets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sections := make(map[string]string)
	for _, key := range keys {
		matched, err := w.Exports(targets[key])
		if err != nil {
			return CatalogResult{}, err
		}
		if len(matched) > 0 {
			sections[key] = w.Pointer(matched[0])
		}
	}
	if len(sections) == 0 {
		return CatalogResult{}, fmt.Errorf("no exports matched any catalog target in %s", w.ExportsPath())
	}

	var missing []string
	for _, req := range required {
		if _, ok := sections[req]; !ok {
			missing = append(missing, req)
		}
	}

	doc, err := readDocument(w.ManifestPath())
	if err != nil {
		return CatalogResult{}, err
	}
	doc["title"] = title
	doc[FieldSections] = sections
	if err := doc.write(w.ManifestPath()); err != nil {
		return CatalogResult{}, err
	}
	return CatalogResult{Sections: sections, Missing: missing}, nil
}
