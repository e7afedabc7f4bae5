package util

import "time"

// DaysSinceEpoch returns whole days elapsed since the Unix epoch.
func DaysSinceEpoch(t time.Time) int64 {
	return t.Unix() / 86400
}

// MinutesSinceEpoch returns whole minutes elapsed since the Unix epoch.
func MinutesSinceEpoch(t time.Time) int64 {
	return t.Unix() / 60
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DateLabel formats t as a short dd/MM chart label.
func DateLabel(t time.Time) string {
	return t.Format("02/01")
}
