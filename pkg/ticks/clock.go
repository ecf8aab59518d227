// Package ticks reads the host scheduler's tick counter.
package ticks

import "sync/atomic"

// Clock is a monotonically increasing integer tick counter.
type Clock interface {
	Now() uint64
	// Hz is the number of ticks per second
	Hz() uint64
}

// Manual is a Clock that only moves when told to.
type Manual struct {
	now atomic.Uint64
	hz  uint64
}

func NewManual(start, hz uint64) *Manual {
	m := &Manual{hz: hz}
	m.now.Store(start)
	return m
}

func (m *Manual) Now() uint64 { return m.now.Load() }

func (m *Manual) Hz() uint64 { return m.hz }

// Advance moves the clock forward by n ticks.
func (m *Manual) Advance(n uint64) {
	m.now.Add(n)
}
