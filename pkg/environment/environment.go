package environment

import (
	"context"
	"fmt"
	"mlfqbench/models"
	"mlfqbench/pkg/app"
	"mlfqbench/pkg/app/pretty_log"
	"mlfqbench/pkg/tracing"
	"os"
	"runtime"
)

const version = "1.0.0"

// Setup describes the host the benchmark runs on and prepares logging,
// tracing and the work directory according to app.Config.
func Setup(name string, ticksPerSecond uint64, probeSource string) (*models.BenchmarkEnvironment, error) {
	pretty_log.SetColor(!app.Config.Log.NoColor)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	if app.Config.WorkDir != "" {
		if err = os.MkdirAll(app.Config.WorkDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create work directory %s. details: %w", app.Config.WorkDir, err)
		}
	}

	if app.Config.Tracing.Enabled {
		if err = tracing.Init(name, version, app.Config.Tracing.OutputFile); err != nil {
			return nil, fmt.Errorf("failed to initialise tracing. details: %w", err)
		}
	}

	return &models.BenchmarkEnvironment{
		Name: name,
		Host: models.HostEnvironment{
			Hostname:       hostname,
			OS:             runtime.GOOS,
			Arch:           runtime.GOARCH,
			NumCPU:         runtime.NumCPU(),
			TicksPerSecond: ticksPerSecond,
			ProbeSource:    probeSource,
		},
		ProgramDir: app.Config.ProgramDir,
		WorkDir:    app.Config.WorkDir,
	}, nil
}

// Shutdown flushes everything Setup started.
func Shutdown() error {
	return tracing.Shutdown(context.TODO())
}
