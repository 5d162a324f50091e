package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playbookhq/playbook/internal/progress"
	"github.com/playbookhq/playbook/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a deployable copy of the site",
	Long:  `Copies the site assets, the manifest and every document it points to into the output directory and precomputes the sections file and search index.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, ctx, err := newLogger(cfg)
		if err != nil {
			return err
		}
		outputDir, _ := cmd.Flags().GetString("output")
		if outputDir == "" {
			outputDir = cfg.Build.OutputDir
		}

		res, err := site.Build(ctx, site.BuildOptions{
			Root:         cfg.Root,
			Manifest:     cfg.Manifest,
			SectionsFile: cfg.SectionsFile,
			OutputDir:    outputDir,
			Assets:       cfg.Build.Assets,
			Sectionizer:  newSectionizer(cfg),
		}, progress.NewReporter("Building site"))
		if err != nil {
			return fmt.Errorf("building site: %w", err)
		}
		fmt.Printf("Site built: %s (%d files, %d sections)\n", outputDir, len(res.Files), res.Sections)
		return nil
	},
}

func init() {
	buildCmd.Flags().String("output", "", "override output directory (defaults to build.output_dir)")
	rootCmd.AddCommand(buildCmd)
}
