package ticks

import "time"

type monotonicClock struct {
	start time.Time
	hz    uint64
}

func (c *monotonicClock) Now() uint64 {
	return uint64(time.Since(c.start)) * c.hz / uint64(time.Second)
}

func (c *monotonicClock) Hz() uint64 { return c.hz }
