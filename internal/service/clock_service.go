package service

import "time"

// Clock supplies creation timestamps for new snippets.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time in UTC, truncated to the microsecond
// precision Postgres keeps so stored and in-memory timestamps compare equal.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
