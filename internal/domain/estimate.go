package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var estimatePattern = regexp.MustCompile(`^(?:(\d+(?:[.,]\d+)?)\s*(?:h|hr|hrs|hour|hours))?\s*(?:(\d+)\s*(?:m|min|mins|minutes))?$`)

// ParseEstimate converts an estimate label such as "2h", "1.5h", "90m",
// "2h30m" or a bare number of hours into decimal hours. An empty label is zero.
func ParseEstimate(label string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, invalid("estimatedTime", "%q must be a non-negative duration", label)
		}
		return v, nil
	}

	m := estimatePattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, invalid("estimatedTime", "%q is not a duration like 2h, 90m or 1h30m", label)
	}
	var hours float64
	if m[1] != "" {
		h, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			return 0, invalid("estimatedTime", "%q: %v", label, err)
		}
		hours += h
	}
	if m[2] != "" {
		mins, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, invalid("estimatedTime", "%q: %v", label, err)
		}
		hours += float64(mins) / 60
	}
	return hours, nil
}
