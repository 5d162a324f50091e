package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/playbookhq/playbook/internal/config"
	"github.com/playbookhq/playbook/internal/progress"
	"github.com/playbookhq/playbook/internal/segment"
)

var updateManifestCmd = &cobra.Command{
	Use:   "update-manifest",
	Short: "Point the manifest at the newest export",
	Long:  `Finds the most recently modified .html file in the exports directory and writes it as the manifest's export_html, keeping every other key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ws := workspace(cfg)
		pointer, err := ws.UpdatePointer()
		if err != nil {
			return err
		}
		if title, _ := cmd.Flags().GetString("title"); title != "" {
			if err := ws.SetTitle(title); err != nil {
				return err
			}
		}
		fmt.Printf("Updated %s -> %s\n", ws.ManifestPath(), pointer)
		return nil
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <export.html>",
	Short: "Copy an export into the site, point the manifest at it and rebuild the sections file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, ctx, err := newLogger(cfg)
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		res, err := ingest(ctx, cfg, args[0], title, time.Now(), progress.NewReporter("Ingesting"))
		if err != nil {
			return err
		}
		fmt.Printf("Ingested %s as %s\n", args[0], res.Pointer)
		fmt.Printf("Wrote %d sections to %s\n", res.Sections, res.SectionsFile)
		return nil
	},
}

type ingestResult struct {
	Pointer      string
	SectionsFile string
	Sections     int
}

// ingest copies src into the exports directory, repoints the manifest and
// regenerates the sections file from the new export.
func ingest(ctx context.Context, cfg *config.Config, src, title string, now time.Time, rep progress.Reporter) (ingestResult, error) {
	rep.Start(2)
	defer rep.Finish()

	pointer, err := workspace(cfg).Ingest(src, title, now)
	if err != nil {
		return ingestResult{}, err
	}
	rep.Update(1, pointer)

	source, sections, err := newSectionizer(cfg).Run(ctx)
	if err != nil {
		return ingestResult{}, fmt.Errorf("sectionizing %s: %w", pointer, err)
	}
	out := cfg.Path(filepath.FromSlash(cfg.SectionsFile))
	if err := segment.WriteFile(out, source, sections, now); err != nil {
		return ingestResult{}, err
	}
	rep.Update(2, cfg.SectionsFile)
	return ingestResult{Pointer: pointer, SectionsFile: out, Sections: len(sections)}, nil
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Write the newest export of every section into the manifest",
	Long: `Matches the exports directory against the configured catalog targets
(section name -> filename glob) and writes the newest match of each as
the manifest's sections map, used by the standalone reader.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			title = cfg.Catalog.Title
		}
		res, err := workspace(cfg).Catalog(title, cfg.Catalog.Targets, cfg.Catalog.Required)
		if err != nil {
			return err
		}
		for name, p := range res.Sections {
			fmt.Printf("  %-12s %s\n", name, p)
		}
		for _, name := range res.Missing {
			fmt.Fprintf(os.Stderr, "Warning: no export found for %s\n", name)
		}
		fmt.Printf("Catalogued %d sections\n", len(res.Sections))
		return nil
	},
}

var sectionizeCmd = &cobra.Command{
	Use:   "sectionize",
	Short: "Precompute the sections file from the current export",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, ctx, err := newLogger(cfg)
		if err != nil {
			return err
		}
		source, sections, err := newSectionizer(cfg).Run(ctx)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = cfg.Path(filepath.FromSlash(cfg.SectionsFile))
		}
		if err := segment.WriteFile(out, source, sections, time.Now()); err != nil {
			return err
		}
		for _, s := range sections {
			fmt.Printf("  %-24s %s\n", s.Slug, s.Title)
		}
		fmt.Printf("Wrote %d sections to %s\n", len(sections), out)
		return nil
	},
}

func init() {
	updateManifestCmd.Flags().String("title", "", "also set the manifest title")
	ingestCmd.Flags().String("title", "", "also set the manifest title")
	catalogCmd.Flags().String("title", "", "manifest title (overrides catalog.title)")
	sectionizeCmd.Flags().String("out", "", "output path (defaults to sections_file under root)")
	rootCmd.AddCommand(updateManifestCmd, ingestCmd, catalogCmd, sectionizeCmd)
}
