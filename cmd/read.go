package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/playbookhq/playbook/internal/event"
	"github.com/playbookhq/playbook/internal/present"
	"github.com/playbookhq/playbook/internal/reader"
	"github.com/playbookhq/playbook/internal/route"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the playbook interactively in the terminal",
	Long: `Opens a reader session and drives it from a menu: step between
headings, scroll, search, jump to a section or heading and toggle the
theme. The session state is printed after every action.`,
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
		return readLoop(cmd, h, cfg.Viewport.Height)
	},
}

func init() {
	addReaderFlags(readCmd)
	rootCmd.AddCommand(readCmd)
}

const (
	actNext     = "Next heading"
	actPrev     = "Previous heading"
	actDown     = "Scroll down"
	actUp       = "Scroll up"
	actSearch   = "Search"
	actGoto     = "Go to"
	actTheme    = "Toggle theme"
	actContents = "Show contents"
	actQuit     = "Quit"
)

func readLoop(cmd *cobra.Command, h *headless, viewport float64) error {
	if viewport <= 0 {
		viewport = present.DefaultViewportHeight
	}
	page := viewport * 0.8
	printState(h)

	for {
		menu := promptui.Select{
			Label: "Action",
			Items: []string{actNext, actPrev, actDown, actUp, actSearch, actGoto, actTheme, actContents, actQuit},
			Size:  9,
		}
		_, action, err := menu.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch action {
		case actNext:
			h.session.Dispatch(event.Key{Key: "ArrowRight", FocusTag: "body"})
		case actPrev:
			h.session.Dispatch(event.Key{Key: "ArrowLeft", FocusTag: "body"})
		case actDown:
			h.session.ScrollBy(page)
		case actUp:
			h.session.ScrollBy(-page)
		case actSearch:
			q, err := (&promptui.Prompt{Label: "Search"}).Run()
			if err != nil {
				continue
			}
			h.session.Dispatch(event.Input{Target: h.pres.Page.Mount(present.MountSearch), Value: q})
			fmt.Printf("%d matches\n", len(h.pres.Marks()))
		case actGoto:
			if err := gotoTarget(cmd, h); err != nil && !errors.Is(err, reader.ErrSuperseded) {
				fmt.Printf("Error: %v\n", err)
				fmt.Println(docText(h.pres))
			}
		case actTheme:
			h.session.Dispatch(event.Click{Target: h.pres.Page.Mount(present.MountTheme)})
		case actContents:
			printSections(h)
			printContents(h.pres)
			continue
		case actQuit:
			return nil
		}
		printState(h)
	}
}

// gotoTarget offers the sections in router mode and the headings
// otherwise, then navigates there.
func gotoTarget(cmd *cobra.Command, h *headless) error {
	var labels, fragments []string
	current := h.session.State().Route
	sections := h.session.Sections()
	if len(sections) > 0 {
		labels = append(labels, "Home")
		fragments = append(fragments, "#/")
		for _, s := range sections {
			labels = append(labels, s.Title)
			fragments = append(fragments, route.SectionHref(s.Slug, ""))
		}
	}
	for _, e := range h.pres.TOC() {
		switch {
		case current.Kind == route.Section:
			labels = append(labels, "  "+e.Label)
			fragments = append(fragments, route.SectionHref(current.Slug, e.TargetID))
		case len(sections) == 0:
			labels = append(labels, e.Label)
			fragments = append(fragments, "#"+e.TargetID)
		}
	}
	if len(labels) == 0 {
		fmt.Println("Nothing to go to.")
		return nil
	}

	sel := promptui.Select{Label: "Go to", Items: labels, Size: 12}
	idx, _, err := sel.Run()
	if err != nil {
		return nil
	}
	loc := h.session.State().Location.WithFragment(fragments[idx])
	return h.session.Navigate(runContext(cmd), loc)
}
