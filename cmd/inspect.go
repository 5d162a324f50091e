package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/config"
	"github.com/playbookhq/playbook/internal/dom"
	"github.com/playbookhq/playbook/internal/present"
	"github.com/playbookhq/playbook/internal/reader"
	"github.com/playbookhq/playbook/internal/route"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Render the reader headlessly and print what it shows",
	Long: `Loads the manifest and document the way the browser reader does,
renders the given location and prints the title, route, sections,
contents list, active heading, progress and theme.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		h, err := startHeadless(cmd, cfg)
		if err != nil {
			return err
		}
		defer h.Close()

		if raw, _ := cmd.Flags().GetBool("html"); raw {
			fmt.Println(h.pres.Page.HTML())
			return nil
		}
		printState(h)
		printSections(h)
		printContents(h.pres)
		return nil
	},
}

func init() {
	addReaderFlags(inspectCmd)
	inspectCmd.Flags().Bool("html", false, "print the rendered host page instead")
	rootCmd.AddCommand(inspectCmd)
}

// addReaderFlags registers the flags shared by the headless commands.
func addReaderFlags(cmd *cobra.Command) {
	cmd.Flags().String("location", "", `initial location, e.g. "#/s/hire" or "?section=train#goals"`)
	cmd.Flags().String("url", "", "read the site from this base URL instead of the root directory")
	cmd.Flags().String("mode", "", "reader mode (overrides config): single, router or standalone")
}

// startHeadless builds a session from the command flags and renders the
// initial location. A failed start prints the rendered error view.
func startHeadless(cmd *cobra.Command, cfg *config.Config) (*headless, error) {
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		cfg.Mode = mode
	}
	log, ctx, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	baseURL, _ := cmd.Flags().GetString("url")
	h, err := newHeadless(cfg, log, baseURL)
	if err != nil {
		return nil, err
	}
	raw, _ := cmd.Flags().GetString("location")
	loc, err := route.ParseLocation(raw)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("parsing location %q: %w", raw, err)
	}
	if err := h.session.Start(ctx, loc); err != nil {
		fmt.Println(docText(h.pres))
		h.Close()
		return nil, err
	}
	return h, nil
}

func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func docText(p *present.Presenter) string {
	return strings.TrimSpace(strings.Join(strings.Fields(dom.Text(p.Page.Mount(present.MountDoc))), " "))
}

func printState(h *headless) {
	st := h.session.State()
	fmt.Printf("Title:    %s\n", st.Title)
	fmt.Printf("Mode:     %s\n", st.Mode)
	fmt.Printf("Location: %s\n", orNone(st.Location.String()))
	switch {
	case st.Route.Kind == route.Section:
		fmt.Printf("Route:    section %s", st.Route.Slug)
		if st.Route.Anchor != "" {
			fmt.Printf(" (#%s)", st.Route.Anchor)
		}
		fmt.Println()
	case st.Mode == reader.ModeRouter:
		fmt.Println("Route:    landing")
	}
	fmt.Printf("Active:   %s\n", orNone(activeLabel(h.pres)))
	fmt.Printf("Progress: %s\n", st.Progress)
	fmt.Printf("Theme:    %s\n", st.Theme)
}

func printSections(h *headless) {
	sections := h.session.Sections()
	if len(sections) == 0 {
		return
	}
	current := h.session.State().Route.Slug
	fmt.Println("Sections:")
	for _, s := range sections {
		marker := " "
		if s.Slug == current {
			marker = "*"
		}
		fmt.Printf(" %s %-24s %s\n", marker, s.Slug, s.Title)
	}
}

func printContents(p *present.Presenter) {
	toc := p.TOC()
	if len(toc) == 0 {
		fmt.Println("Contents: (no headings)")
		return
	}
	fmt.Println("Contents:")
	for _, e := range toc {
		marker := " "
		if e.TargetID == p.Active() {
			marker = "*"
		}
		indent := strings.Repeat("  ", max(0, e.Level-2))
		fmt.Printf(" %s %s%s  (#%s)\n", marker, indent, e.Label, e.TargetID)
	}
}

func activeLabel(p *present.Presenter) string {
	for _, e := range p.TOC() {
		if e.TargetID == p.Active() {
			return e.Label
		}
	}
	return ""
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// markedText renders the text of n with search marks bracketed.
func markedText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if dom.IsElement(n, "mark") {
			b.WriteString("[")
			b.WriteString(dom.Text(n))
			b.WriteString("]")
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
