package present

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
	"github.com/playbookhq/playbook/internal/prefs"
)

// Theme is the color scheme override.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// DefaultThemeKey is the store key holding the theme.
const DefaultThemeKey = "playbook-theme"

const themeAttr = "data-theme"

// ParseTheme accepts light, dark, system and the empty string (system).
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	case ThemeSystem, "":
		return ThemeSystem, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light, dark or system)", s)
}

// Next cycles system, light, dark.
func (t Theme) Next() Theme {
	switch t {
	case ThemeLight:
		return ThemeDark
	case ThemeDark:
		return ThemeSystem
	}
	return ThemeLight
}

// ThemeController applies the theme to the root element and persists it.
type ThemeController struct {
	Root  *html.Node
	Store prefs.Store
	Key   string
}

func (c *ThemeController) key() string {
	if c.Key == "" {
		return DefaultThemeKey
	}
	return c.Key
}

// Current reads the theme from the root element.
func (c *ThemeController) Current() Theme {
	t, err := ParseTheme(dom.Attr(c.Root, themeAttr))
	if err != nil {
		return ThemeSystem
	}
	return t
}

// Set applies t. System removes both the attribute and the stored value.
func (c *ThemeController) Set(t Theme) error {
	if t == ThemeSystem || t == "" {
		dom.RemoveAttr(c.Root, themeAttr)
		if c.Store != nil {
			return c.Store.Delete(c.key())
		}
		return nil
	}
	dom.SetAttr(c.Root, themeAttr, string(t))
	if c.Store != nil {
		return c.Store.Set(c.key(), string(t))
	}
	return nil
}

// Toggle advances to the next theme.
func (c *ThemeController) Toggle() (Theme, error) {
	next := c.Current().Next()
	return next, c.Set(next)
}

// Restore applies the stored theme. Missing or unrecognized values leave
// the page on the system theme.
func (c *ThemeController) Restore() (Theme, error) {
	if c.Store == nil {
		return c.Current(), nil
	}
	v, err := c.Store.Get(c.key())
	if errors.Is(err, prefs.ErrNotFound) {
		return ThemeSystem, nil
	}
	if err != nil {
		return ThemeSystem, err
	}
	t, err := ParseTheme(v)
	if err != nil || t == ThemeSystem {
		return ThemeSystem, nil
	}
	dom.SetAttr(c.Root, themeAttr, string(t))
	return t, nil
}
