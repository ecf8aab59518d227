package local

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mlfqbench/pkg/process_control"
	"mlfqbench/utils"
	"os"
	"os/exec"
	"syscall"
)

// Local launches workload programs as child processes of the current process.
type Local struct {
	// Dir is searched first for programs
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
	// Env, when set, replaces the environment of the children
	Env []string

	process_control.Launcher
}

func New(dir string) *Local {
	return &Local{
		Dir:    dir,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (l *Local) Start(program string, args ...string) (process_control.Child, error) {
	path, err := utils.ResolveProgram(l.Dir, program)
	if err != nil {
		return nil, fmt.Errorf("%w: exec %s failed. details: %w", process_control.ErrLaunch, program, err)
	}

	cmd := exec.Command(path, args...)
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	if l.Env != nil {
		cmd.Env = l.Env
	}

	if err = cmd.Start(); err != nil {
		kind := process_control.ErrSpawn
		if isLaunchError(err) {
			kind = process_control.ErrLaunch
		}
		return nil, fmt.Errorf("%w: exec %s failed. details: %w", kind, program, err)
	}

	return &child{cmd: cmd, program: program}, nil
}

// isLaunchError tells a program that cannot be executed apart from a process
// that could not be created.
func isLaunchError(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.ENOEXEC)
}

type child struct {
	cmd     *exec.Cmd
	program string
}

func (c *child) PID() int {
	return c.cmd.Process.Pid
}

func (c *child) Program() string {
	return c.program
}

func (c *child) Wait() (int, error) {
	err := c.cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
