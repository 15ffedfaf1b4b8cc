package model

import "time"

// TimestampLayout is RFC 3339 with a fixed nine-digit fraction, so stamps
// written with it also sort correctly as plain strings.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// CompareTimestamps orders two RFC 3339 stamps by instant, returning -1, 0
// or +1. Fraction width does not matter. If either stamp fails to parse
// the two are compared as strings.
func CompareTimestamps(a, b string) int {
	ta, errA := time.Parse(time.RFC3339Nano, a)
	tb, errB := time.Parse(time.RFC3339Nano, b)
	if errA != nil || errB != nil {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	return ta.Compare(tb)
}
