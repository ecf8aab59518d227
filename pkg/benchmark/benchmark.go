package benchmark

import (
	"context"
	"errors"
	"fmt"
	"mlfqbench/models"
	"mlfqbench/pkg/app"
	"mlfqbench/pkg/app/pretty_log"
	"mlfqbench/pkg/process_control"
	"mlfqbench/pkg/process_control/local"
	"mlfqbench/pkg/ticks"
	"mlfqbench/pkg/tracing"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/viant/afs"
)

type Benchmark struct {
	Environment models.BenchmarkEnvironment
	Launcher    process_control.Launcher
	Clock       ticks.Clock

	// Mode is app.ModeConcurrent or app.ModeSequential
	Mode string
	// RunID is handed to every child so that their reports can be correlated
	RunID string
	// ConfigPath is forwarded to the children when set
	ConfigPath string

	mut      sync.Mutex
	children map[int]childTask
}

// childTask is the bookkeeping kept for a child until it is reaped.
type childTask struct {
	task string
	span *tracing.Span
}

func NewBenchmark(environment models.BenchmarkEnvironment, launcher process_control.Launcher, clock ticks.Clock) *Benchmark {
	return &Benchmark{
		Environment: environment,
		Launcher:    launcher,
		Clock:       clock,
		Mode:        app.ModeConcurrent,
		RunID:       uuid.NewString(),
		children:    make(map[int]childTask),
	}
}

// Run launches the enabled workloads of app.Config as local child processes.
func Run(environment *models.BenchmarkEnvironment, configPath string) (*models.BenchmarkRun, error) {
	b := NewBenchmark(*environment, local.New(environment.ProgramDir), ticks.New())
	b.Mode = app.Config.Mode
	b.ConfigPath = configPath

	ctx := context.Background()
	run, err := b.Run(ctx, app.Config.EnabledWorkloads())
	if err != nil {
		return nil, err
	}

	if app.Config.OutputDir != "" {
		reports, err := LoadReports(ctx, afs.New(), app.Config.OutputDir, b.RunID)
		if err != nil {
			pretty_log.TaskResultBad("Failed to load reports: %s", err.Error())
		} else {
			PrintSummary(reports)
		}
	}

	return run, nil
}

// Run starts one child per workload, waits for every child to terminate and
// returns the ticks that elapsed from the first launch to the last reap.
// A child that fails to launch or exits non-zero does not stop the others.
func (b *Benchmark) Run(ctx context.Context, workloads []models.WorkloadDefinition) (run *models.BenchmarkRun, err error) {
	if len(workloads) == 0 {
		return nil, errors.New("no workloads to run")
	}
	if err = ValidateWorkloads(workloads); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "benchmark.run")
	span.WithAttributes(map[string]string{"run.id": b.RunID, "mode": b.Mode})
	defer func() { tracing.EndSpan(span, err) }()

	pretty_log.TaskGroup("=== MLFQ Scheduler Benchmark ===")
	pretty_log.TaskResult("Run %s on %s (%d CPUs)", b.RunID, b.Environment.Host.Hostname, b.Environment.Host.NumCPU)
	pretty_log.TaskResult("Starting %s tests %s...", joinNames(workloads), b.modeDescription())

	run = &models.BenchmarkRun{StartTick: b.Clock.Now()}

	if b.Mode == app.ModeSequential {
		for _, w := range workloads {
			child := b.start(ctx, w)
			if child == nil {
				continue
			}
			process_control.WaitAll([]process_control.Child{child}, b.onExit)
		}
	} else {
		var children []process_control.Child
		for _, w := range workloads {
			if child := b.start(ctx, w); child != nil {
				children = append(children, child)
			}
		}
		process_control.WaitAll(children, b.onExit)
	}

	run.EndTick = b.Clock.Now()

	pretty_log.TaskGroup("=== Benchmark Complete ===")
	pretty_log.TaskResult("Total time: %d ticks", run.Elapsed())
	pretty_log.TaskResult("All %d workloads finished.", len(workloads))

	span.WithInt("elapsed.ticks", int64(run.Elapsed()))
	return run, nil
}

func (b *Benchmark) start(ctx context.Context, w models.WorkloadDefinition) process_control.Child {
	_, span := tracing.StartSpan(ctx, "benchmark.child")
	span.WithAttributes(map[string]string{"workload": w.Name, "program": w.Program, "profile": w.Profile})

	child, err := b.Launcher.Start(w.Program, ChildArgs(w, b.RunID, b.ConfigPath)...)
	if err != nil {
		if errors.Is(err, process_control.ErrLaunch) {
			pretty_log.TaskResultBad("[%s] Error: exec %s failed. details: %s", w.Name, w.Program, err.Error())
		} else {
			pretty_log.TaskResultBad("[%s] Error: could not create process. details: %s", w.Name, err.Error())
		}
		tracing.EndSpan(span, err)
		return nil
	}

	task := pretty_log.BeginTask("[%s] %s (PID: %d)", w.Name, w.Program, child.PID())
	span.WithInt("pid", int64(child.PID()))

	b.mut.Lock()
	if b.children == nil {
		b.children = make(map[int]childTask)
	}
	b.children[child.PID()] = childTask{task: task, span: span}
	b.mut.Unlock()

	return child
}

func (b *Benchmark) onExit(exit process_control.Exit) {
	b.mut.Lock()
	ct := b.children[exit.Child.PID()]
	delete(b.children, exit.Child.PID())
	b.mut.Unlock()

	var err error
	switch {
	case exit.Err != nil:
		err = exit.Err
		pretty_log.TaskResultBad("[%s] PID %d could not be waited for. details: %s", exit.Child.Program(), exit.Child.PID(), err.Error())
	case exit.Code != 0:
		err = fmt.Errorf("exit status %d", exit.Code)
		pretty_log.TaskResultBad("[%s] PID %d exited with status %d", exit.Child.Program(), exit.Child.PID(), exit.Code)
	default:
		pretty_log.TaskResult("[%s] PID %d finished", exit.Child.Program(), exit.Child.PID())
	}

	if exit.Success() {
		pretty_log.CompleteTask(ct.task)
	} else {
		pretty_log.FailTask(ct.task)
	}
	tracing.EndSpan(ct.span, err)
}

func (b *Benchmark) modeDescription() string {
	if b.Mode == app.ModeSequential {
		return "one after another"
	}
	return "concurrently"
}

func joinNames(workloads []models.WorkloadDefinition) string {
	names := make([]string, len(workloads))
	for i, w := range workloads {
		names[i] = w.Name
	}
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

// ChildArgs returns the command line a workload program is started with.
func ChildArgs(w models.WorkloadDefinition, runID, configPath string) []string {
	args := []string{"-profile", w.Profile, "-run", runID}
	if configPath != "" {
		args = append(args, "-config", configPath)
	}
	return args
}
