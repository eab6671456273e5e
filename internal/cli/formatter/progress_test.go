package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHoursBar(t *testing.T) {
	tests := []struct {
		name     string
		actual   float64
		estimate float64
		wantPct  string
	}{
		{"nothing logged", 0, 2, "0%"},
		{"half way", 1, 2, "50%"},
		{"on estimate", 2, 2, "100%"},
		{"overrun is not clamped", 2.5, 2, "125%"},
		{"negative clamps", -1, 2, "0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderHoursBar(tt.actual, tt.estimate, 10)
			assert.Contains(t, got, tt.wantPct)
			assert.Contains(t, got, "[")
		})
	}
}

func TestRenderHoursBarBlocks(t *testing.T) {
	assert.Contains(t, RenderHoursBar(0, 1, 4), emptyBlock+emptyBlock+emptyBlock+emptyBlock)
	assert.Contains(t, RenderHoursBar(5, 1, 4), filledBlock+filledBlock+filledBlock+filledBlock)
}

func TestRenderHoursBarNoEstimate(t *testing.T) {
	got := RenderHoursBar(1, 0, 6)
	assert.Contains(t, got, "n/a")
	assert.NotContains(t, got, filledBlock)
}
