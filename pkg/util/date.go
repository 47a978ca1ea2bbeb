package util

import (
	"fmt"
	"strconv"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseDate splits a YYYY-MM-DD calendar date. Out-of-range days such as 02-30 are rejected.
func ParseDate(s string) (year, month, day int, err error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t.Year(), int(t.Month()), t.Day(), nil
}

// ParseClock splits a 24-hour HH:MM wall-clock time.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}
