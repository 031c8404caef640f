package util

import "time"

// StripZone discards the zone of t while keeping its wall-clock reading:
// 09:30 in any offset stays 09:30. The result is expressed in UTC so that
// all in-memory comparisons happen on a single zone-less axis. This is not
// an instant conversion.
func StripZone(t time.Time) time.Time {
	return time.Date(
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		time.UTC,
	)
}

// Midnight truncates t to the start of its calendar day, preserving the
// zone-less convention of StripZone.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
