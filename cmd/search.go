package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
	"github.com/playbookhq/playbook/internal/event"
	"github.com/playbookhq/playbook/internal/present"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Highlight a query in the rendered document and list the hits",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if mode, _ := cmd.Flags().GetString("search-mode"); mode != "" {
			cfg.Search.Mode = mode
		}
		h, err := startHeadless(cmd, cfg)
		if err != nil {
			return err
		}
		defer h.Close()

		query := strings.Join(args, " ")
		h.session.Dispatch(event.Input{Target: h.pres.Page.Mount(present.MountSearch), Value: query})

		marks := h.pres.Marks()
		seen := make(map[*html.Node]bool)
		for _, m := range marks {
			block := enclosingBlock(m)
			if seen[block] {
				continue
			}
			seen[block] = true
			fmt.Printf("  %s\n", markedText(block))
		}
		fmt.Printf("%d matches for %q\n", len(marks), query)
		if len(marks) > 0 {
			fmt.Printf("Active heading: %s\n", orNone(activeLabel(h.pres)))
		}
		return nil
	},
}

func init() {
	addReaderFlags(searchCmd)
	searchCmd.Flags().String("search-mode", "", "terms (every occurrence) or first (first per element)")
	rootCmd.AddCommand(searchCmd)
}

// enclosingBlock is the nearest searchable element holding n.
func enclosingBlock(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if dom.IsElement(p, "p", "li", "h1", "h2", "h3", "h4") {
			return p
		}
	}
	return n
}
