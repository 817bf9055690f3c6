package transform

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCalendarDate reports a civil date string that does not name a real
// calendar instant (e.g. 2024-01-32 or 2023-02-29).
var ErrInvalidCalendarDate = errors.New("invalid calendar date")

// civilLayouts are the accepted civil timestamp forms, tried in order.
// A bare date is interpreted as 00:00:00 UTC of that day.
var civilLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseCivilDate parses a UTC civil timestamp. time.Parse already rejects
// rollover dates (day 32, month 13, Feb 29 in a common year), so this is the
// boundary where out-of-range calendar input turns into a reported error
// instead of reaching the ephemeris math.
func ParseCivilDate(s string) (time.Time, error) {
	for _, layout := range civilLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCalendarDate, s)
}
