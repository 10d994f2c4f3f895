package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderUtilization renders a utilization bar like [████░░░░]  45%. The bar
// is full above 100% and the label keeps the real figure. Green up to 80%,
// yellow up to 100%, red beyond.
func RenderUtilization(pct float64, width int) string {
	if width < 2 {
		width = 2
	}
	frac := min(max(pct/100, 0), 1)
	filled := int(frac * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct > 100:
		style = StyleRed
	case pct > 80:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct)
}
