package models

// MaxNameLength is the longest process name a snapshot carries.
const MaxNameLength = 16

// ProcessStats is a point-in-time read of one process's scheduling statistics.
// The counters are owned by the host scheduler.
type ProcessStats struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
	// PriorityLevel is the scheduler's queue index for the process
	PriorityLevel int `json:"priorityLevel"`
	// TotalTicks is the accumulated running time in scheduler ticks
	TotalTicks uint64 `json:"totalTicks"`
	// TimesScheduled counts how often the process was dispatched
	TimesScheduled uint64 `json:"timesScheduled"`
}

// TruncateName shortens name to MaxNameLength bytes.
func TruncateName(name string) string {
	if len(name) > MaxNameLength {
		return name[:MaxNameLength]
	}
	return name
}
