// Package workload holds the synthetic programs run under the scheduler.
//
// CPU-bound generators never block, allocate or print inside their loops, so
// they consume whole time slices. I/O-bound generators issue many short
// blocking filesystem calls, so they give up the processor early and often.
package workload

import (
	"fmt"
	"mlfqbench/models"
	"mlfqbench/pkg/fsys"
	"sort"
	"strings"
)

type Kind string

const (
	KindCPU Kind = "cpu"
	KindIO  Kind = "io"
)

const (
	ProfilePrimes     = "primes"
	ProfileArithmetic = "arith"
	ProfileCycle      = "cycle"
	ProfileBytes      = "bytes"
)

// Generator is one workload variant, ready to run to completion.
type Generator interface {
	Kind() Kind
	// Describe is the line printed before the workload starts
	Describe() string
	Run() (models.WorkloadResult, error)
}

// Options carries everything a generator may need.
type Options struct {
	Sizing models.Sizing
	FS     fsys.FileSystem
	// WorkFile is the resolved path of the I/O work file
	WorkFile string
}

type Profile struct {
	Name        string
	Kind        Kind
	Description string
	New         func(opts Options) Generator
}

var profiles = map[string]Profile{
	ProfilePrimes: {
		Name:        ProfilePrimes,
		Kind:        KindCPU,
		Description: "primality counting by trial division",
		New: func(opts Options) Generator {
			return &PrimesGenerator{Max: opts.Sizing.MaxPrime, Iterations: opts.Sizing.PrimeIterations}
		},
	},
	ProfileArithmetic: {
		Name:        ProfileArithmetic,
		Kind:        KindCPU,
		Description: "heavy modular arithmetic with bit diffusion",
		New: func(opts Options) Generator {
			return &ArithmeticGenerator{
				Outer:  opts.Sizing.OuterIterations,
				Inner:  opts.Sizing.InnerIterations,
				Rounds: opts.Sizing.DiffusionRounds,
			}
		},
	},
	ProfileCycle: {
		Name:        ProfileCycle,
		Kind:        KindIO,
		Description: "write, read back and compute, per iteration",
		New: func(opts Options) Generator {
			return &CycleGenerator{
				FS:           opts.FS,
				WorkFile:     opts.WorkFile,
				Iterations:   opts.Sizing.IOIterations,
				BufferSize:   opts.Sizing.IOBufferSize,
				ComputeSteps: opts.Sizing.ComputeSteps,
			}
		},
	},
	ProfileBytes: {
		Name:        ProfileBytes,
		Kind:        KindIO,
		Description: "one write call per byte",
		New: func(opts Options) Generator {
			return &ByteWriteGenerator{FS: opts.FS, WorkFile: opts.WorkFile, Writes: opts.Sizing.IOByteWrites}
		},
	},
}

// Lookup returns the named profile, restricted to kind when kind is not empty.
func Lookup(name string, kind Kind) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown workload profile: %s (available: %s)", name, strings.Join(names(Profiles(kind)), ", "))
	}
	if kind != "" && p.Kind != kind {
		return Profile{}, fmt.Errorf("profile %s is %s-bound, expected %s-bound", name, p.Kind, kind)
	}
	return p, nil
}

// Profiles lists the profiles of kind, or all of them when kind is empty.
func Profiles(kind Kind) []Profile {
	var list []Profile
	for _, p := range profiles {
		if kind == "" || p.Kind == kind {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func names(list []Profile) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Name
	}
	return out
}

// ProfileUsage lists the profiles of kind with their descriptions, for flag help.
func ProfileUsage(kind Kind) string {
	list := Profiles(kind)
	parts := make([]string, len(list))
	for i, p := range list {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Description)
	}
	return strings.Join(parts, "; ")
}
