// Package biztime centralizes time handling. All storage and transport use
// UTC; persisted timestamps are Unix milliseconds.
package biztime

import "time"

// NowUTC returns current time in UTC, truncated to millisecond precision so
// that values survive a round trip through storage unchanged.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// ToMillis converts a time to Unix milliseconds. The zero time maps to 0.
func ToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromMillis converts Unix milliseconds to a UTC time. 0 maps to the zero time.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func ToMillisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := ToMillis(*t)
	return &ms
}

func FromMillisPtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := FromMillis(*ms)
	return &t
}
