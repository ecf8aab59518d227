// Package runner is the body of a workload program: it brackets a generator
// with tick readings, takes a statistics snapshot of its own process and
// prints the report.
package runner

import (
	"context"
	"errors"
	"fmt"
	"mlfqbench/models"
	"mlfqbench/pkg/app/pretty_log"
	"mlfqbench/pkg/probe"
	"mlfqbench/pkg/ticks"
	"mlfqbench/pkg/tracing"
	"mlfqbench/pkg/workload"
	"os"
	"strings"
	"time"
)

const (
	ExitOK      = 0
	ExitFailure = 1
)

type Runner struct {
	Program string
	Profile string
	RunID   string
	PID     int

	Clock ticks.Clock
	Probe probe.Probe

	Environment models.BenchmarkEnvironment

	// Save persists the report when set. A failure is reported but not fatal.
	Save func(ctx context.Context, report models.WorkloadReport) (string, error)
}

func New(program, profile string, clock ticks.Clock, p probe.Probe) *Runner {
	return &Runner{
		Program: program,
		Profile: profile,
		PID:     os.Getpid(),
		Clock:   clock,
		Probe:   p,
	}
}

// Run executes gen to completion and returns the process exit code.
// Any generator error is fatal; a failed statistics query is not.
func (r *Runner) Run(ctx context.Context, gen workload.Generator) int {
	title := kindTitle(gen.Kind())

	pretty_log.TaskGroup("%s test starting (PID: %d)", title, r.PID)
	pretty_log.TaskResult("%s", gen.Describe())

	report := models.WorkloadReport{
		RunID:       r.RunID,
		Program:     r.Program,
		Profile:     r.Profile,
		PID:         r.PID,
		Environment: r.Environment,
	}

	ctx, span := tracing.StartSpan(ctx, "workload.run")
	span.WithAttributes(map[string]string{"program": r.Program, "profile": r.Profile, "run.id": r.RunID})

	report.Run.StartTick = r.Clock.Now()
	result, err := gen.Run()
	report.Run.EndTick = r.Clock.Now()
	report.Result = result

	span.WithInt("elapsed.ticks", int64(report.Run.Elapsed()))
	tracing.EndSpan(span, err)

	if err != nil {
		pretty_log.TaskResultBad("Error: %s", err.Error())
		return ExitFailure
	}

	pretty_log.TaskGroup("%s test completed (PID: %d)", title, r.PID)
	for _, line := range resultLines(result) {
		pretty_log.TaskResult("%s", line)
	}
	pretty_log.TaskResult("Time elapsed: %d ticks", report.Run.Elapsed())

	stats, err := r.snapshot(ctx)
	if err != nil {
		report.StatsError = err.Error()
		pretty_log.TaskResultBad("Failed to get process info: %s", err.Error())
	} else {
		report.Stats = stats
		pretty_log.TaskResult("Process Statistics:")
		pretty_log.TaskResultList(StatsLines(stats))
	}

	if r.Save != nil {
		report.Timestamp = time.Now()
		if location, err := r.Save(ctx, report); err != nil {
			pretty_log.TaskResultBad("Failed to save report: %s", err.Error())
		} else {
			pretty_log.TaskResult("Report saved to %s", location)
		}
	}

	return ExitOK
}

func (r *Runner) snapshot(ctx context.Context) (stats *models.ProcessStats, err error) {
	ctx, span := tracing.StartSpan(ctx, "workload.probe")
	defer func() { tracing.EndSpan(span, err) }()

	if r.Probe == nil {
		return nil, errors.New("no statistics probe")
	}
	return r.Probe.Snapshot(ctx, r.PID)
}

// StatsLines renders a snapshot the way the report prints it.
func StatsLines(stats *models.ProcessStats) []string {
	return []string{
		fmt.Sprintf("PID: %d", stats.PID),
		fmt.Sprintf("Name: %s", stats.Name),
		fmt.Sprintf("Priority Queue: %d", stats.PriorityLevel),
		fmt.Sprintf("Total CPU Ticks: %d", stats.TotalTicks),
		fmt.Sprintf("Times Scheduled: %d", stats.TimesScheduled),
	}
}

func resultLines(result models.WorkloadResult) []string {
	var lines []string
	if result.PrimeCount > 0 {
		lines = append(lines, fmt.Sprintf("Found %d prime numbers", result.PrimeCount))
	}
	if result.Accumulator > 0 || result.BitAccumulator > 0 {
		lines = append(lines, fmt.Sprintf("Result: %d, bit accumulator: %d", result.Accumulator, result.BitAccumulator))
	}
	if result.Operations > 0 {
		lines = append(lines, fmt.Sprintf("Completed %d I/O operations (%d bytes written, %d bytes read)", result.Operations, result.BytesWritten, result.BytesRead))
	}
	return lines
}

func kindTitle(kind workload.Kind) string {
	switch kind {
	case workload.KindCPU:
		return "CPU-bound"
	case workload.KindIO:
		return "I/O-bound"
	default:
		return strings.ToUpper(string(kind))
	}
}
