package ports

import "time"

// Clock supplies the current time to handlers and jobs.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock in UTC.
var SystemClock = ClockFunc(func() time.Time { return time.Now().UTC() })
