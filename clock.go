package esquery

import "time"

// DefaultDateLayout is the layout instants are rendered with in default filters.
// Instants are converted to UTC first.
const DefaultDateLayout = "2006-01-02 15:04:05"

// Clock supplies the current instant for the visibility filters.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

func formatInstant(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultDateLayout
	}
	return t.UTC().Format(layout)
}
