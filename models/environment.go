package models

type HostEnvironment struct {
	Hostname string `json:"hostname"`
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	NumCPU   int    `json:"numCpu"`
	// TicksPerSecond is the resolution of the tick counter
	TicksPerSecond uint64 `json:"ticksPerSecond"`
	// ProbeSource names where process statistics are read from
	ProbeSource string `json:"probeSource"`
}

type BenchmarkEnvironment struct {
	Name string          `json:"name"`
	Host HostEnvironment `json:"host"`

	// ProgramDir is where workload executables are looked up first
	ProgramDir string `json:"programDir"`
	// WorkDir holds the work files of I/O-bound workloads
	WorkDir string `json:"workDir"`
}
