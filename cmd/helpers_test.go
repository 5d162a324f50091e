package cmd

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/playbookhq/playbook/internal/config"
	"github.com/playbookhq/playbook/internal/event"
	"github.com/playbookhq/playbook/internal/present"
	"github.com/playbookhq/playbook/internal/prefs"
	"github.com/playbookhq/playbook/internal/route"
)

func testConfig(t *testing.T, mode string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Root = filepath.Join("..", "testdata", "site")
	cfg.Mode = mode
	cfg.Theme.DBPath = ""
	return cfg
}

func startTest(t *testing.T, cfg *config.Config, raw string) *headless {
	t.Helper()
	h, err := newHeadless(cfg, zap.NewNop(), "")
	if err != nil {
		t.Fatalf("newHeadless: %v", err)
	}
	t.Cleanup(h.Close)
	loc, err := route.ParseLocation(raw)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.session.Start(context.Background(), loc); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return h
}

func TestHeadlessSingle(t *testing.T) {
	h := startTest(t, testConfig(t, config.ModeSingle), "")

	st := h.session.State()
	if st.Title != "Team Playbook" {
		t.Errorf("title = %q", st.Title)
	}
	if len(h.pres.Headings()) != 7 {
		t.Errorf("headings = %d, want 7", len(h.pres.Headings()))
	}
	if strings.Contains(h.pres.Page.HTML(), "table_of_contents") {
		t.Error("exported contents list was not removed")
	}
}

func TestHeadlessRouterLanding(t *testing.T) {
	h := startTest(t, testConfig(t, config.ModeRouter), "#/")

	sections := h.session.Sections()
	if len(sections) != 4 {
		t.Fatalf("sections = %d, want 4", len(sections))
	}
	// Leading content attaches to the first section by default.
	if !strings.Contains(sections[0].HTML(), "How we grow") {
		t.Errorf("leading paragraph missing from first section")
	}

	text := docText(h.pres)
	for _, label := range []string{"Scale", "Hire", "Train", "Reflect"} {
		if !strings.Contains(text, label) {
			t.Errorf("landing lacks %q: %s", label, text)
		}
	}
}

func TestHeadlessRouterSearchAndSteps(t *testing.T) {
	h := startTest(t, testConfig(t, config.ModeRouter), "#/s/scale")

	h.session.Dispatch(event.Input{Target: h.pres.Page.Mount(present.MountSearch), Value: "headcount"})
	if got := len(h.pres.Marks()); got != 3 {
		t.Errorf("marks = %d, want 3", got)
	}

	for i := 0; i < 3; i++ {
		h.session.Dispatch(event.Key{Key: "ArrowRight", FocusTag: "body"})
	}
	if got := h.session.State().Route.Slug; got != "scale" {
		t.Errorf("route after three steps = %q, want scale", got)
	}
	h.session.Dispatch(event.Key{Key: "ArrowRight", FocusTag: "body"})
	if got := h.session.State().Route.Slug; got != "hire" {
		t.Errorf("route after crossing = %q, want hire", got)
	}
}

func TestHeadlessStandalone(t *testing.T) {
	h := startTest(t, testConfig(t, config.ModeStandalone), "?section=hire")
	if got := len(h.pres.TOC()); got != 2 {
		t.Errorf("toc entries = %d, want 2", got)
	}
}

func TestEntryPointsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.EntryPoints = []config.EntryPointConfig{{Label: "Grow", Match: "scale", Fallback: []string{"growth"}}}
	got := entryPoints(cfg)
	if len(got) != 1 || got[0].Label != "Grow" || got[0].Match != "scale" || got[0].Fallback[0] != "growth" {
		t.Errorf("entryPoints = %+v", got)
	}
	cfg.EntryPoints = nil
	if entryPoints(cfg) != nil {
		t.Error("empty entry points should defer to the reader defaults")
	}
}

func TestOpenStore(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Theme.DBPath = ""
	store, done, err := openStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	done()
	if _, ok := store.(*prefs.MemoryStore); !ok {
		t.Errorf("store = %T, want memory store", store)
	}

	cfg.Root = t.TempDir()
	cfg.Theme.DBPath = "state/prefs.db"
	store, done, err = openStore(cfg)
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer done()
	if err := store.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	if v, err := store.Get("k"); err != nil || v != "v" {
		t.Errorf("Get = %q, %v", v, err)
	}
}

func TestMarkedText(t *testing.T) {
	h := startTest(t, testConfig(t, config.ModeSingle), "")
	h.session.Dispatch(event.Input{Target: h.pres.Page.Mount(present.MountSearch), Value: "debrief"})
	marks := h.pres.Marks()
	if len(marks) != 1 {
		t.Fatalf("marks = %d", len(marks))
	}
	if got := markedText(enclosingBlock(marks[0])); got != "Four interviews, one [debrief]." {
		t.Errorf("markedText = %q", got)
	}
}
