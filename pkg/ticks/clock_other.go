//go:build !linux

package ticks

import "time"

const defaultHz = 100

// New returns a tick counter derived from the monotonic clock at 10ms per tick.
func New() Clock {
	return &monotonicClock{start: time.Now(), hz: defaultHz}
}
