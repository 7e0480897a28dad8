package launchtrc

// Clock provides monotonic timestamps in nanoseconds. The epoch is arbitrary,
// so values are only meaningful relative to each other.
type Clock interface {
	Now() int64
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() int64

// Now implements Clock.
func (f ClockFunc) Now() int64 { return f() }

// MonotonicClock reads the operating system's monotonic clock, which is
// unaffected by changes to the system wall clock.
type MonotonicClock struct{}

// Now implements Clock.
func (MonotonicClock) Now() int64 { return monotonicNanos() }

// micros converts a nanosecond timestamp to the microsecond resolution of the
// trace format.
func micros(nanos int64) int64 {
	return nanos / 1000
}
