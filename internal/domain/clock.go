package domain

import "time"

// Clock abstracts "now" so the past-start check in NewTimeRange can be tested
// with a fixed time instead of time.Now.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock backed by time.Now.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
