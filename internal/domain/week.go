package domain

import (
	"fmt"
	"time"
)

// WeekKey formats t as an ISO-8601 week identifier, e.g. "2025-W40".
// Snapshots written by the recorder and looked up by the chart builder
// must agree on this format.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// PreviousWeekKey returns the key of the week containing t minus seven days.
func PreviousWeekKey(t time.Time) string {
	return WeekKey(t.AddDate(0, 0, -7))
}

// ParseWeekKey validates key and returns the Monday (UTC) starting that week.
func ParseWeekKey(key string) (time.Time, error) {
	var year, week int
	if n, err := fmt.Sscanf(key, "%4d-W%2d", &year, &week); err != nil || n != 2 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWeek, key)
	}
	if len(key) != 8 || week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWeek, key)
	}

	// January 4th is always in week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset+(week-1)*7)

	if y, w := monday.ISOWeek(); y != year || w != week {
		return time.Time{}, fmt.Errorf("%w: %q has no week %d", ErrInvalidWeek, key, week)
	}
	// Sscanf accepts signs and short fields, so only the canonical form passes.
	if WeekKey(monday) != key {
		return time.Time{}, fmt.Errorf("%w: %q is not canonical", ErrInvalidWeek, key)
	}
	return monday, nil
}
