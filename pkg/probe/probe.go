// Package probe takes snapshots of a process's scheduling statistics.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mlfqbench/models"
	"syscall"

	"github.com/prometheus/procfs"
)

var ErrProcessNotFound = errors.New("process not found")

type Probe interface {
	// Snapshot returns the statistics of pid as of the call
	Snapshot(ctx context.Context, pid int) (*models.ProcessStats, error)
}

// ProcFS reads statistics from a procfs mount.
type ProcFS struct {
	Root string
}

func New() *ProcFS {
	return &ProcFS{Root: procfs.DefaultMountPoint}
}

// Source names the location the probe reads from.
func (p *ProcFS) Source() string {
	return p.Root
}

// Snapshot reads name, priority and CPU ticks from /proc/<pid>/stat and the
// number of times the process was dispatched, summed over its threads.
// Zombie and dead processes count as not found.
func (p *ProcFS) Snapshot(ctx context.Context, pid int) (*models.ProcessStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pid < 0 {
		return nil, fmt.Errorf("pid %d: %w", pid, ErrProcessNotFound)
	}

	mount, err := procfs.NewFS(p.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to open procfs at %s: %w", p.Root, err)
	}

	proc, err := mount.Proc(pid)
	if err != nil {
		return nil, wrap(pid, "stat", err)
	}

	stat, err := proc.Stat()
	if err != nil {
		return nil, wrap(pid, "stat", err)
	}
	if exited(stat.State) {
		return nil, fmt.Errorf("pid %d has exited (state %s): %w", pid, stat.State, ErrProcessNotFound)
	}

	stats := &models.ProcessStats{
		PID:           pid,
		Name:          models.TruncateName(stat.Comm),
		PriorityLevel: stat.Priority,
		TotalTicks:    uint64(stat.UTime) + uint64(stat.STime),
	}

	stats.TimesScheduled, err = timesScheduled(mount, proc)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// timesScheduled sums the dispatch counts of every thread of proc. Threads
// that exit while they are being read are skipped. Without a task directory
// only the process itself is counted.
func timesScheduled(mount procfs.FS, proc procfs.Proc) (uint64, error) {
	threads, err := mount.AllThreads(proc.PID)
	if err != nil || len(threads) == 0 {
		threads = procfs.Procs{proc}
	}

	var total uint64
	counted := 0
	for _, thread := range threads {
		n, err := dispatches(thread)
		if err != nil {
			if gone(err) {
				continue
			}
			return 0, wrap(proc.PID, "scheduler statistics", err)
		}
		total += n
		counted++
	}

	if counted == 0 {
		return 0, fmt.Errorf("pid %d: %w", proc.PID, ErrProcessNotFound)
	}
	return total, nil
}

// dispatches returns the timeslices a thread ran, from schedstat, or its
// voluntary and involuntary context switches on kernels without CONFIG_SCHEDSTATS.
func dispatches(thread procfs.Proc) (uint64, error) {
	schedstat, err := thread.Schedstat()
	if err == nil {
		return schedstat.RunTimeslices, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return 0, err
	}

	status, err := thread.NewStatus()
	if err != nil {
		return 0, err
	}
	return status.VoluntaryCtxtSwitches + status.NonVoluntaryCtxtSwitches, nil
}

func exited(state string) bool {
	return state == "Z" || state == "X"
}

func gone(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ESRCH)
}

func wrap(pid int, what string, err error) error {
	if gone(err) {
		return fmt.Errorf("pid %d: %w", pid, ErrProcessNotFound)
	}
	return fmt.Errorf("failed to read %s of pid %d: %w", what, pid, err)
}
