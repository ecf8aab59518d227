package runner

import (
	"context"
	"fmt"
	"mlfqbench/models"
	"mlfqbench/pkg/app"
	"mlfqbench/pkg/app/pretty_log"
	"mlfqbench/pkg/benchmark"
	"mlfqbench/pkg/environment"
	"mlfqbench/pkg/fsys"
	"mlfqbench/pkg/probe"
	"mlfqbench/pkg/ticks"
	"mlfqbench/pkg/workload"
	"mlfqbench/utils"

	"github.com/viant/afs"
)

// Main runs the workload program with the profile selected on its command
// line against app.Config and returns the process exit code.
func Main(program string, kind workload.Kind, profile, runID string) int {
	p, err := workload.Lookup(profile, kind)
	if err != nil {
		pretty_log.TaskResultBad("Error: %s", err.Error())
		return ExitFailure
	}

	clock := ticks.New()
	procfs := probe.New()

	env, err := environment.Setup(program, clock.Hz(), procfs.Source())
	if err != nil {
		pretty_log.TaskResultBad("Error: %s", err.Error())
		return ExitFailure
	}
	defer func() {
		if err := environment.Shutdown(); err != nil {
			pretty_log.TaskResultBad("Failed to shut down: %s", err.Error())
		}
	}()

	r := New(program, profile, clock, procfs)
	r.RunID = runID
	r.Environment = *env
	pretty_log.SetPrefix(fmt.Sprintf("%s %d", program, r.PID))

	if app.Config.OutputDir != "" {
		fs := afs.New()
		dir := app.Config.OutputDir
		r.Save = func(ctx context.Context, report models.WorkloadReport) (string, error) {
			return benchmark.SaveReport(ctx, fs, dir, report)
		}
	}

	gen := p.New(workload.Options{
		Sizing:   app.Config.Sizing,
		FS:       fsys.New(),
		WorkFile: utils.WorkFileName(app.Config.WorkDir, app.Config.Sizing.WorkFile, r.PID),
	})

	return r.Run(context.Background(), gen)
}
