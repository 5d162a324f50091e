package cmd

import (
	"github.com/spf13/cobra"

	"github.com/playbookhq/playbook/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "playbook",
	Short: "Read and publish exported playbook documents",
	Long: `Playbook turns an exported document into a navigable reading site:
a contents list that follows your scroll position, reading progress,
in-page search, a persisted theme and keyboard navigation between
headings. It also maintains the manifest that points the reader at the
newest export, and builds and serves the site.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
