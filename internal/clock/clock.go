package clock

import "time"

// Clock abstracts wall-clock access so time-sensitive code (cache TTLs,
// the weekly purge window, reopen annotations) can be tested deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// NewSystemClock returns a Clock backed by time.Now in UTC.
func NewSystemClock() Clock {
	return systemClock{}
}
