package cmd

import (
	"github.com/spf13/cobra"

	"github.com/playbookhq/playbook/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize playbook configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the reader for your site and writes a .playbook.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
