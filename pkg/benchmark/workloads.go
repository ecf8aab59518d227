package benchmark

import (
	"fmt"
	"mlfqbench/models"
	"mlfqbench/pkg/workload"
)

const (
	ProgramCPUBound = "cpubound"
	ProgramIOBound  = "iobound"
)

// ProgramKind returns the kind of generator program runs, or "" when the
// program is not one of the bundled workloads.
func ProgramKind(program string) workload.Kind {
	switch program {
	case ProgramCPUBound:
		return workload.KindCPU
	case ProgramIOBound:
		return workload.KindIO
	default:
		return ""
	}
}

// ValidateWorkloads checks that every bundled program is paired with a
// profile it can run. Other programs are passed through untouched.
func ValidateWorkloads(workloads []models.WorkloadDefinition) error {
	for _, w := range workloads {
		if w.Program == "" {
			return fmt.Errorf("workload %s has no program", w.Name)
		}
		kind := ProgramKind(w.Program)
		if kind == "" {
			continue
		}
		if _, err := workload.Lookup(w.Profile, kind); err != nil {
			return fmt.Errorf("workload %s: %w", w.Name, err)
		}
	}
	return nil
}
