package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DefaultResetTime = "00:00"

// Window is the 24-hour quota period [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Key identifies the window independently of its location.
func (w Window) Key() string {
	return strconv.FormatInt(w.Start.Unix(), 10)
}

// UTC returns the same window expressed in UTC.
func (w Window) UTC() Window {
	return Window{Start: w.Start.UTC(), End: w.End.UTC()}
}

// ParseResetTime parses a HH:MM reset time. An empty string is the default
// midnight reset.
func ParseResetTime(resetTime string) (hour, minute int, err error) {
	if resetTime == "" {
		resetTime = DefaultResetTime
	}

	h, m, found := strings.Cut(resetTime, ":")
	if !found || len(h) != 2 || len(m) != 2 {
		return 0, 0, fmt.Errorf("reset time must be in HH:MM format, but got %q", resetTime)
	}

	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in reset time %q", resetTime)
	}

	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in reset time %q", resetTime)
	}

	return hour, minute, nil
}

// CurrentWindow returns the window containing now. The window starts at the
// reset time of now's date, or of the previous date when now is before it, and
// always spans exactly 24 hours in now's location.
func CurrentWindow(resetTime string, now time.Time) (Window, error) {
	hour, minute, err := ParseResetTime(resetTime)
	if err != nil {
		return Window{}, err
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if now.Before(start) {
		start = start.Add(-24 * time.Hour)
	}

	return Window{Start: start, End: start.Add(24 * time.Hour)}, nil
}

// NextResetAfter returns the first window start strictly after now.
func NextResetAfter(resetTime string, now time.Time) (time.Time, error) {
	w, err := CurrentWindow(resetTime, now)
	if err != nil {
		return time.Time{}, err
	}

	return w.End, nil
}

// StartOfDay returns the calendar day of t as a 24-hour window in t's location.
func StartOfDay(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Window{Start: start, End: start.Add(24 * time.Hour)}
}

// DaysBetween returns the number of calendar days from a to b, both taken in
// UTC.
func DaysBetween(a, b time.Time) int {
	da := StartOfDay(a.UTC()).Start
	db := StartOfDay(b.UTC()).Start
	return int(db.Sub(da) / (24 * time.Hour))
}
