package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// detectExportsDir looks for a directory that already holds exported markup.
func detectExportsDir() string {
	for _, dir := range []string{"exports", "export", "docs"} {
		matches, _ := filepath.Glob(filepath.Join(dir, "*.html"))
		if len(matches) > 0 {
			return dir
		}
	}
	return "exports"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to playbook! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	exportsDir := detectExportsDir()
	if _, err := os.Stat(exportsDir); err == nil {
		fmt.Printf("Found exports in %s/\n\n", exportsDir)
	}

	// 1. Reading mode.
	modePrompt := promptui.Select{
		Label: "Select reading mode",
		Items: []string{
			"single     - one document with a table of contents",
			"router     - landing page and per-section routes",
			"standalone - one page per manifest section (?section=)",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("mode selection: %w", err)
	}
	cfg.Mode = []string{ModeSingle, ModeRouter, ModeStandalone}[modeIdx]

	// 2. Exports directory.
	exportsPrompt := promptui.Prompt{
		Label:   "Directory holding exported documents",
		Default: exportsDir,
	}
	if cfg.ExportsDir, err = exportsPrompt.Run(); err != nil {
		return nil, fmt.Errorf("exports dir: %w", err)
	}

	// 3. Content selector.
	selectorPrompt := promptui.Prompt{
		Label:   "CSS selector of the content region",
		Default: cfg.ContentSelector,
	}
	if cfg.ContentSelector, err = selectorPrompt.Run(); err != nil {
		return nil, fmt.Errorf("content selector: %w", err)
	}

	// 4. Leading content and entry points only matter when routing.
	if cfg.Mode == ModeRouter {
		leadingPrompt := promptui.Select{
			Label: "Content before the first heading",
			Items: []string{"attach", "separate", "drop"},
		}
		if _, cfg.Segment.Leading, err = leadingPrompt.Run(); err != nil {
			return nil, fmt.Errorf("leading policy: %w", err)
		}

		entryPrompt := promptui.Prompt{
			Label:   "Landing entry points (comma-separated)",
			Default: "Scale, Hire, Train, Reflect",
		}
		entryStr, err := entryPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("entry points: %w", err)
		}
		cfg.EntryPoints = entryPoints(splitAndTrim(entryStr))
	}

	// 5. Scrubbing.
	scrubPrompt := promptui.Select{
		Label: "Strip scripts and event handlers from exports?",
		Items: []string{"no", "yes"},
	}
	scrubIdx, _, err := scrubPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("scrub selection: %w", err)
	}
	cfg.Scrub = scrubIdx == 1

	// 6. Dev server port.
	portPrompt := promptui.Prompt{
		Label:    "Dev server port",
		Default:  strconv.Itoa(cfg.Serve.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Serve.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

// entryPoints keeps the fallback keywords of known default labels.
func entryPoints(labels []string) []EntryPointConfig {
	if len(labels) == 0 {
		return append([]EntryPointConfig(nil), DefaultEntryPoints...)
	}
	out := make([]EntryPointConfig, 0, len(labels))
	for _, label := range labels {
		ep := EntryPointConfig{Label: label}
		for _, d := range DefaultEntryPoints {
			if strings.EqualFold(d.Label, label) {
				ep.Fallback = d.Fallback
			}
		}
		out = append(out, ep)
	}
	return out
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
