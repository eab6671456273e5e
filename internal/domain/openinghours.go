package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(ms) != 2 {
		return 0, invalid("time", "%q is not HH:MM", s)
	}
	h, errH := strconv.Atoi(hs)
	m, errM := strconv.Atoi(ms)
	if errH != nil || errM != nil {
		return 0, invalid("time", "%q is not HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, invalid("time", "%q is out of range 00:00-23:59", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// MustTimeOfDay is ParseTimeOfDay for constants; it panics on bad input.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeOfDayOf returns the time of day of t in t's location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Minutes returns t as an int number of minutes since midnight.
func (t TimeOfDay) Minutes() int { return int(t) }

// On returns the instant at t on the calendar day of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, int(t)/60, int(t)%60, 0, 0, day.Location())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// DayHours is the business schedule for one weekday.
type DayHours struct {
	Open    TimeOfDay `json:"open"`
	Close   TimeOfDay `json:"close"`
	Enabled bool      `json:"enabled"`
}

// Validate requires Open to precede Close on enabled days. A shift that
// crosses midnight is not representable.
func (d DayHours) Validate() error {
	if d.Open < 0 || d.Open >= minutesPerDay || d.Close < 0 || d.Close >= minutesPerDay {
		return invalid("hours", "times must be within 00:00-23:59")
	}
	if d.Enabled && d.Open >= d.Close {
		return invalid("hours", "open %s must be before close %s", d.Open, d.Close)
	}
	return nil
}

// DayKey returns the lowercase weekday name used as the schedule key.
func DayKey(wd time.Weekday) string {
	return strings.ToLower(wd.String())
}

// ParseWeekday accepts a full or three-letter English weekday name.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		key := DayKey(wd)
		if s == key || (len(s) == 3 && strings.HasPrefix(key, s)) {
			return wd, nil
		}
	}
	return 0, invalid("day", "%q is not a weekday", s)
}

// Weekdays lists the days in the workshop's display order, Monday first.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// OpeningHours is the weekly schedule keyed by DayKey.
type OpeningHours map[string]DayHours

// DefaultOpeningHours is every day enabled from 08:00 to 18:00.
func DefaultOpeningHours() OpeningHours {
	oh := make(OpeningHours, 7)
	for _, wd := range Weekdays {
		oh[DayKey(wd)] = DayHours{Open: MustTimeOfDay("08:00"), Close: MustTimeOfDay("18:00"), Enabled: true}
	}
	return oh
}

// Day returns the hours for wd.
func (oh OpeningHours) Day(wd time.Weekday) (DayHours, bool) {
	d, ok := oh[DayKey(wd)]
	return d, ok
}

// Validate requires a complete seven-day schedule with valid days.
func (oh OpeningHours) Validate() error {
	if len(oh) != 7 {
		return invalid("schedule", "expected 7 days, got %d", len(oh))
	}
	for _, wd := range Weekdays {
		d, ok := oh.Day(wd)
		if !ok {
			return invalid("schedule", "missing %s", DayKey(wd))
		}
		if err := d.Validate(); err != nil {
			return fmt.Errorf("%s: %w", DayKey(wd), err)
		}
	}
	return nil
}

// Clone returns an independent copy.
func (oh OpeningHours) Clone() OpeningHours {
	c := make(OpeningHours, len(oh))
	for k, v := range oh {
		c[k] = v
	}
	return c
}
