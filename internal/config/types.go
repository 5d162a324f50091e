package config

// Config is the top-level playbook configuration, corresponding to .playbook.yml.
type Config struct {
	// Root is the site directory holding the manifest, exports and assets.
	Root            string `yaml:"root" koanf:"root"`
	Manifest        string `yaml:"manifest" koanf:"manifest"`
	SectionsFile    string `yaml:"sections_file" koanf:"sections_file"`
	ExportsDir      string `yaml:"exports_dir" koanf:"exports_dir"`
	Mode            string `yaml:"mode" koanf:"mode"`
	ContentSelector string `yaml:"content_selector" koanf:"content_selector"`
	Scrub           bool   `yaml:"scrub" koanf:"scrub"`

	Segment     SegmentConfig      `yaml:"segment" koanf:"segment"`
	Search      SearchConfig       `yaml:"search" koanf:"search"`
	EntryPoints []EntryPointConfig `yaml:"entry_points" koanf:"entry_points"`
	Theme       ThemeConfig        `yaml:"theme" koanf:"theme"`
	Viewport    ViewportConfig     `yaml:"viewport" koanf:"viewport"`
	Serve       ServeConfig        `yaml:"serve" koanf:"serve"`
	Build       BuildConfig        `yaml:"build" koanf:"build"`
	Catalog     CatalogConfig      `yaml:"catalog" koanf:"catalog"`

	LogLevel string `yaml:"log_level" koanf:"log_level"`
}

// SegmentConfig controls how an export is split into sections.
type SegmentConfig struct {
	Level        int    `yaml:"level" koanf:"level"`
	Leading      string `yaml:"leading" koanf:"leading"`
	DefaultTitle string `yaml:"default_title" koanf:"default_title"`
}

// SearchConfig controls in-document highlighting.
type SearchConfig struct {
	Mode      string `yaml:"mode" koanf:"mode"`
	MinLength int    `yaml:"min_length" koanf:"min_length"`
}

// EntryPointConfig is one landing link.
type EntryPointConfig struct {
	Label    string   `yaml:"label" koanf:"label"`
	Match    string   `yaml:"match,omitempty" koanf:"match"`
	Fallback []string `yaml:"fallback,omitempty" koanf:"fallback"`
}

// ThemeConfig holds the persisted theme preference location.
type ThemeConfig struct {
	StorageKey string `yaml:"storage_key" koanf:"storage_key"`
	DBPath     string `yaml:"db_path" koanf:"db_path"`
}

// ViewportConfig sizes the headless reading viewport.
type ViewportConfig struct {
	Height       float64 `yaml:"height" koanf:"height"`
	LineHeight   float64 `yaml:"line_height" koanf:"line_height"`
	CharsPerLine int     `yaml:"chars_per_line" koanf:"chars_per_line"`
}

// ServeConfig holds dev server settings.
type ServeConfig struct {
	Port       int  `yaml:"port" koanf:"port"`
	AllowAll   bool `yaml:"allow_all" koanf:"allow_all"`
	LiveReload bool `yaml:"live_reload" koanf:"live_reload"`
}

// BuildConfig holds dist build settings.
type BuildConfig struct {
	OutputDir string   `yaml:"output_dir" koanf:"output_dir"`
	Assets    []string `yaml:"assets" koanf:"assets"`
}

// CatalogConfig maps section names to export filename globs.
type CatalogConfig struct {
	Title    string            `yaml:"title" koanf:"title"`
	Targets  map[string]string `yaml:"targets" koanf:"targets"`
	Required []string          `yaml:"required" koanf:"required"`
}
