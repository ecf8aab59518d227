package models

import "time"

// BenchmarkRun brackets one measured interval with two readings of the
// scheduler tick counter.
type BenchmarkRun struct {
	StartTick uint64 `json:"startTick"`
	EndTick   uint64 `json:"endTick"`
}

// Elapsed returns the number of ticks between start and end.
// A counter that appears to have gone backwards yields 0.
func (r BenchmarkRun) Elapsed() uint64 {
	if r.EndTick < r.StartTick {
		return 0
	}
	return r.EndTick - r.StartTick
}

type WorkloadDefinition struct {
	Name string `yaml:"name"`
	// Program is the name of the workload executable, e.g. cpubound
	Program string `yaml:"program"`
	// Profile selects the generator variant the program runs
	Profile  string `yaml:"profile"`
	Disabled bool   `yaml:"disabled"`
}

type WorkloadResult struct {
	// CPU-bound kernels
	PrimeCount     int    `json:"primeCount,omitempty"`
	Accumulator    uint64 `json:"accumulator,omitempty"`
	BitAccumulator uint64 `json:"bitAccumulator,omitempty"`

	// I/O-bound patterns
	Operations   int `json:"operations,omitempty"`
	BytesWritten int `json:"bytesWritten,omitempty"`
	BytesRead    int `json:"bytesRead,omitempty"`
}

type WorkloadReport struct {
	RunID   string `json:"runId"`
	Program string `json:"program"`
	Profile string `json:"profile"`
	PID     int    `json:"pid"`

	Run    BenchmarkRun   `json:"run"`
	Result WorkloadResult `json:"result"`

	Stats      *ProcessStats `json:"stats,omitempty"`
	StatsError string        `json:"statsError,omitempty"`

	Environment BenchmarkEnvironment `json:"environment"`
	Timestamp   time.Time            `json:"timestamp"`
}
