package ticks

import (
	"time"

	"golang.org/x/sys/unix"
)

// userHz is the fixed USER_HZ of the Linux times(2) ABI.
const userHz = 100

type systemClock struct {
	fallback *monotonicClock
}

// New returns the system tick counter. On Linux it is the clock tick count
// returned by times(2).
func New() Clock {
	return &systemClock{fallback: &monotonicClock{start: time.Now(), hz: userHz}}
}

func (c *systemClock) Now() uint64 {
	var tms unix.Tms
	t, err := unix.Times(&tms)
	if err != nil {
		return c.fallback.Now()
	}
	return uint64(t)
}

func (c *systemClock) Hz() uint64 { return userHz }
