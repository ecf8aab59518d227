// Package fsys is the filesystem surface the I/O-bound workloads exercise.
// Every method maps onto a single blocking system call so that each call is
// a potential yield point for the scheduler.
package fsys

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

type File interface {
	io.Reader
	io.Writer
	io.Closer
}

type FileSystem interface {
	// Create opens name for writing, creating it if absent and truncating it otherwise
	Create(name string) (File, error)
	// Open opens an existing file for reading
	Open(name string) (File, error)
	// Remove deletes name
	Remove(name string) error
	// Exists reports whether name exists
	Exists(name string) (bool, error)
}

type osFS struct{}

// New returns the FileSystem of the host operating system.
func New() FileSystem {
	return osFS{}
}

func (osFS) Create(name string) (File, error) {
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
}

func (osFS) Open(name string) (File, error) {
	return os.Open(name)
}

func (osFS) Remove(name string) error {
	return os.Remove(name)
}

func (osFS) Exists(name string) (bool, error) {
	_, err := os.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
