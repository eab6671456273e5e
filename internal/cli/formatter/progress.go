package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderHoursBar renders actual against estimated hours like
// [██████░░░░] 60%. The bar fills green while within the estimate, turns
// yellow past 90% and red once the estimate is exceeded; the percentage is
// not clamped so overruns read as e.g. 125%.
func RenderHoursBar(actual, estimate float64, width int) string {
	if width < 2 {
		width = 2
	}
	if estimate <= 0 {
		return fmt.Sprintf("[%s] %s", StyleDim.Render(strings.Repeat(emptyBlock, width)), Dim("n/a"))
	}
	pct := actual / estimate
	if pct < 0 {
		pct = 0
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct > 1:
		style = StyleRed
	case pct >= 0.9:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}
