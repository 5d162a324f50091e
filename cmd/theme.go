package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playbookhq/playbook/internal/present"
)

var themeCmd = &cobra.Command{
	Use:       "theme [toggle|light|dark|system]",
	Short:     "Show or change the persisted reading theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"toggle", "light", "dark", "system"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		ctrl := &present.ThemeController{Root: present.DefaultPage().Root(), Store: store, Key: cfg.Theme.StorageKey}
		current, err := ctrl.Restore()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			fmt.Printf("Theme: %s\n", current)
			return nil
		}

		if args[0] == "toggle" {
			current, err = ctrl.Toggle()
		} else {
			current, err = present.ParseTheme(args[0])
			if err == nil {
				err = ctrl.Set(current)
			}
		}
		if err != nil {
			return err
		}
		fmt.Printf("Theme: %s\n", current)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
