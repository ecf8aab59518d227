package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mlfqbench/models"
	"mlfqbench/pkg/app/pretty_log"
	"mlfqbench/pkg/benchmark"
	"mlfqbench/pkg/fsys"
	"mlfqbench/pkg/probe"
	"mlfqbench/pkg/ticks"
	"mlfqbench/pkg/workload"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

type fakeGenerator struct {
	clock  *ticks.Manual
	cost   uint64
	result models.WorkloadResult
	err    error
}

func (g *fakeGenerator) Kind() workload.Kind { return workload.KindCPU }
func (g *fakeGenerator) Describe() string    { return "Spinning..." }

func (g *fakeGenerator) Run() (models.WorkloadResult, error) {
	g.clock.Advance(g.cost)
	return g.result, g.err
}

type fakeProbe struct {
	stats *models.ProcessStats
	err   error
	pids  []int
}

func (p *fakeProbe) Snapshot(_ context.Context, pid int) (*models.ProcessStats, error) {
	p.pids = append(p.pids, pid)
	return p.stats, p.err
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	pretty_log.SetOutput(&buf)
	pretty_log.SetColor(false)
	t.Cleanup(func() {
		pretty_log.SetOutput(os.Stdout)
		pretty_log.SetColor(true)
	})
	return &buf
}

func TestRunPrintsReport(t *testing.T) {
	out := captureLog(t)
	clock := ticks.NewManual(100, 100)
	stats := &models.ProcessStats{PID: 321, Name: "cpubound", PriorityLevel: 2, TotalTicks: 57, TimesScheduled: 19}
	p := &fakeProbe{stats: stats}

	r := New("cpubound", workload.ProfilePrimes, clock, p)
	r.PID = 321

	var saved []models.WorkloadReport
	r.Save = func(_ context.Context, report models.WorkloadReport) (string, error) {
		saved = append(saved, report)
		return "mem://report.json", nil
	}

	code := r.Run(context.Background(), &fakeGenerator{clock: clock, cost: 42, result: models.WorkloadResult{PrimeCount: 1754}})
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []int{321}, p.pids)

	text := out.String()
	assert.Contains(t, text, "CPU-bound test starting (PID: 321)")
	assert.Contains(t, text, "Found 1754 prime numbers")
	assert.Contains(t, text, "Time elapsed: 42 ticks")
	assert.Contains(t, text, "Process Statistics:")
	for _, line := range StatsLines(stats) {
		assert.Contains(t, text, line)
	}

	require.Len(t, saved, 1)
	assert.Equal(t, models.BenchmarkRun{StartTick: 100, EndTick: 142}, saved[0].Run)
	assert.Equal(t, stats, saved[0].Stats)
	assert.Equal(t, workload.ProfilePrimes, saved[0].Profile)
	assert.False(t, saved[0].Timestamp.IsZero())
}

func TestRunStatsFailureIsNotFatal(t *testing.T) {
	out := captureLog(t)
	clock := ticks.NewManual(0, 100)
	p := &fakeProbe{err: fmt.Errorf("pid 9: %w", probe.ErrProcessNotFound)}

	var saved []models.WorkloadReport
	r := New("cpubound", workload.ProfilePrimes, clock, p)
	r.Save = func(_ context.Context, report models.WorkloadReport) (string, error) {
		saved = append(saved, report)
		return "", errors.New("disk full")
	}

	code := r.Run(context.Background(), &fakeGenerator{clock: clock, cost: 1})
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out.String(), "Failed to get process info")
	assert.Contains(t, out.String(), "Failed to save report: disk full")

	require.Len(t, saved, 1)
	assert.Nil(t, saved[0].Stats)
	assert.Contains(t, saved[0].StatsError, "process not found")
}

func TestRunGeneratorFailureIsFatal(t *testing.T) {
	out := captureLog(t)
	clock := ticks.NewManual(0, 100)
	p := &fakeProbe{}

	saves := 0
	r := New("iobound", workload.ProfileCycle, clock, p)
	r.Save = func(context.Context, models.WorkloadReport) (string, error) {
		saves++
		return "", nil
	}

	code := r.Run(context.Background(), &fakeGenerator{clock: clock, err: errors.New("write failed")})
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, p.pids)
	assert.Zero(t, saves)
	assert.Contains(t, out.String(), "Error: write failed")
}

// brokenFS fails every call and counts them.
type brokenFS struct {
	mu    sync.Mutex
	calls int
}

var errReadOnly = errors.New("read-only filesystem")

func (b *brokenFS) count() {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
}

func (b *brokenFS) Create(string) (fsys.File, error) { b.count(); return nil, errReadOnly }
func (b *brokenFS) Open(string) (fsys.File, error)   { b.count(); return nil, errReadOnly }
func (b *brokenFS) Remove(string) error              { b.count(); return errReadOnly }
func (b *brokenFS) Exists(string) (bool, error)      { return false, nil }

func TestRunIOFailureExitsNonZero(t *testing.T) {
	captureLog(t)
	clock := ticks.NewManual(0, 100)
	fs := &brokenFS{}

	p, err := workload.Lookup(workload.ProfileCycle, workload.KindIO)
	require.NoError(t, err)
	gen := p.New(workload.Options{
		Sizing:   models.Sizing{IOIterations: 10, IOBufferSize: 8, ComputeSteps: 1},
		FS:       fs,
		WorkFile: "iotest.txt",
	})

	code := New("iobound", workload.ProfileCycle, clock, &fakeProbe{}).Run(context.Background(), gen)
	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, 1, fs.calls)
}

func TestRunRealWorkloadAndSave(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("procfs is only available on linux")
	}
	captureLog(t)

	dir := t.TempDir()
	p, err := workload.Lookup(workload.ProfileBytes, workload.KindIO)
	require.NoError(t, err)
	gen := p.New(workload.Options{
		Sizing:   models.Sizing{IOByteWrites: 200},
		FS:       fsys.New(),
		WorkFile: filepath.Join(dir, "iotest.txt"),
	})

	fs := afs.New()
	outputDir := filepath.Join(dir, "results")
	r := New("iobound", workload.ProfileBytes, ticks.New(), probe.New())
	r.RunID = "run-1"
	r.Save = func(ctx context.Context, report models.WorkloadReport) (string, error) {
		return benchmark.SaveReport(ctx, fs, outputDir, report)
	}

	require.Equal(t, ExitOK, r.Run(context.Background(), gen))
	assert.NoFileExists(t, filepath.Join(dir, "iotest.txt"))

	reports, err := benchmark.LoadReports(context.Background(), fs, outputDir, "run-1")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, os.Getpid(), reports[0].PID)
	assert.Equal(t, 200, reports[0].Result.BytesWritten)
	require.NotNil(t, reports[0].Stats)
	assert.Equal(t, os.Getpid(), reports[0].Stats.PID)
}
