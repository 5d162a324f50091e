package reader

import "fmt"

// Mode selects the reader variant.
type Mode string

const (
	// ModeSingle presents the whole export as one document.
	ModeSingle Mode = "single"
	// ModeRouter splits the export into sections behind hash routes.
	ModeRouter Mode = "router"
	// ModeStandalone presents one manifest section chosen by ?section=.
	ModeStandalone Mode = "standalone"
)

// ParseMode validates a mode name; empty means ModeSingle.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeSingle, nil
	case ModeSingle, ModeRouter, ModeStandalone:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (want single, router or standalone)", s)
}
