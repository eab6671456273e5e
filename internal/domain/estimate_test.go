package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEstimate(t *testing.T) {
	tests := []struct {
		label string
		want  float64
	}{
		{"", 0},
		{"2h", 2},
		{"2H", 2},
		{"1.5h", 1.5},
		{"1,5h", 1.5},
		{"90m", 1.5},
		{"45 min", 0.75},
		{"2h30m", 2.5},
		{"1h 15m", 1.25},
		{"3 hours", 3},
		{"2", 2},
		{"0.25", 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseEstimate(tt.label)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseEstimate_Invalid(t *testing.T) {
	for _, label := range []string{"soon", "h", "2d", "-1", "1h-30m", "m30"} {
		t.Run(label, func(t *testing.T) {
			_, err := ParseEstimate(label)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "estimatedTime", verr.Field)
		})
	}
}
