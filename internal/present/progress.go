package present

import (
	"fmt"
	"math"

	"golang.org/x/net/html"

	"github.com/playbookhq/playbook/internal/dom"
)

// Fraction is the reading progress in [0, 1]. Content that does not
// scroll reports 0.
func Fraction(offset, scrollHeight, viewport float64) float64 {
	max := scrollHeight - viewport
	if max <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, offset/max))
}

// ProgressStyle formats a fraction as the bar's inline width.
func ProgressStyle(f float64) string {
	return fmt.Sprintf("width: %.2f%%", f*100)
}

func renderProgress(bar *html.Node, f float64) {
	if bar != nil {
		dom.SetAttr(bar, "style", ProgressStyle(f))
	}
}
