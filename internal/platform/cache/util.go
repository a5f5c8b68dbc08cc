package cache

import (
	"time"
)

// RefreshHourUTC is the hour at which cached catalog entries expire by default.
const RefreshHourUTC = 4

// TimeUntilNext returns the duration from now until the next hour:00 UTC.
// Exactly on the hour yields a full day.
func TimeUntilNext(hour int, now time.Time) time.Duration {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
