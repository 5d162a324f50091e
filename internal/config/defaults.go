package config

// DefaultFile is the configuration file read when --config is not given.
const DefaultFile = ".playbook.yml"

// Mode values.
const (
	ModeSingle     = "single"
	ModeRouter     = "router"
	ModeStandalone = "standalone"
)

// DefaultAssets are copied into the output directory by a build.
var DefaultAssets = []string{
	"index.html",
	"reader.html",
	"styles.css",
	"main.js",
	"reader.js",
	"router.js",
}

// DefaultEntryPoints are the landing links of the router mode.
var DefaultEntryPoints = []EntryPointConfig{
	{Label: "Scale"},
	{Label: "Hire"},
	{Label: "Train"},
	{Label: "Reflect", Fallback: []string{"retrospective", "review"}},
}

// DefaultCatalogTargets maps section names to export filename globs.
var DefaultCatalogTargets = map[string]string{
	"scale":      "scale*.html",
	"hire":       "hire*.html",
	"train":      "train*.html",
	"reflect":    "reflect*.html",
	"fire":       "fire*.html",
	"references": "references*.html",
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	entries := make([]EntryPointConfig, len(DefaultEntryPoints))
	copy(entries, DefaultEntryPoints)
	targets := make(map[string]string, len(DefaultCatalogTargets))
	for k, v := range DefaultCatalogTargets {
		targets[k] = v
	}

	return &Config{
		Root:            ".",
		Manifest:        "manifest.json",
		SectionsFile:    "data/sections.json",
		ExportsDir:      "exports",
		Mode:            ModeSingle,
		ContentSelector: "article.page",
		Segment: SegmentConfig{
			Leading:      "attach",
			DefaultTitle: "Document",
		},
		Search: SearchConfig{
			Mode:      "terms",
			MinLength: 2,
		},
		EntryPoints: entries,
		Theme: ThemeConfig{
			StorageKey: "playbook-theme",
			DBPath:     ".playbook/prefs.db",
		},
		Viewport: ViewportConfig{
			Height:       800,
			LineHeight:   24,
			CharsPerLine: 80,
		},
		Serve: ServeConfig{
			Port:       8080,
			LiveReload: true,
		},
		Build: BuildConfig{
			OutputDir: "dist",
			Assets:    append([]string(nil), DefaultAssets...),
		},
		Catalog: CatalogConfig{
			Title:    "Scale, Hire, Train, Reflect",
			Targets:  targets,
			Required: []string{"scale", "hire", "train", "reflect"},
		},
		LogLevel: "info",
	}
}
