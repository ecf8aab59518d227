package process_control

import (
	"errors"
	"sync"
)

var (
	// ErrLaunch means the child could not run the named program
	ErrLaunch = errors.New("launch failed")
	// ErrSpawn means no child process could be created at all
	ErrSpawn = errors.New("spawn failed")
)

type Child interface {
	// PID returns the process id of the child
	PID() int
	// Program returns the name the child was launched with
	Program() string
	// Wait blocks until the child terminates and returns its exit code.
	// A non-zero exit code is not an error; err is set only when the
	// child's termination could not be observed.
	Wait() (int, error)
}

type Launcher interface {
	// Start launches an independent child process running program with args.
	// It does not wait for the child.
	Start(program string, args ...string) (Child, error)
}

type Exit struct {
	Child Child
	Code  int
	Err   error
}

// Success reports whether the child terminated with exit code 0.
func (e Exit) Success() bool {
	return e.Err == nil && e.Code == 0
}

// WaitAll waits until every child has terminated, in whatever order they
// finish. onExit, when not nil, is called as each child is reaped.
// The returned exits are in completion order.
func WaitAll(children []Child, onExit func(Exit)) []Exit {
	exits := make([]Exit, 0, len(children))
	mut := sync.Mutex{}
	wg := sync.WaitGroup{}

	for _, child := range children {
		wg.Add(1)
		go func(child Child) {
			defer wg.Done()

			code, err := child.Wait()
			exit := Exit{Child: child, Code: code, Err: err}

			mut.Lock()
			defer mut.Unlock()
			exits = append(exits, exit)
			if onExit != nil {
				onExit(exit)
			}
		}(child)
	}
	wg.Wait()

	return exits
}
