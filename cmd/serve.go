package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/playbookhq/playbook/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site locally with live reload",
	Long:  `Starts a local HTTP server over the site root. The sections file is generated on request when absent, and connected pages reload when the manifest changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, ctx, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		port := cfg.Serve.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		liveReload := cfg.Serve.LiveReload
		if noReload, _ := cmd.Flags().GetBool("no-reload"); noReload {
			liveReload = false
		}

		srv := site.NewServer(site.Config{
			Root:         cfg.Root,
			Manifest:     cfg.Manifest,
			SectionsFile: cfg.SectionsFile,
			Port:         port,
			AllowAll:     cfg.Serve.AllowAll,
			LiveReload:   liveReload,
			Sectionizer:  newSectionizer(cfg),
		}, log)

		url := fmt.Sprintf("http://localhost:%d", port)
		fmt.Printf("Serving playbook at %s\n", url)
		fmt.Println("Press Ctrl+C to stop.")
		if open, _ := cmd.Flags().GetBool("open"); open {
			go site.OpenBrowser(url)
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 8080, "port for the local dev server (overrides serve.port)")
	serveCmd.Flags().Bool("open", false, "open browser automatically")
	serveCmd.Flags().Bool("no-reload", false, "disable live reload")
	rootCmd.AddCommand(serveCmd)
}
