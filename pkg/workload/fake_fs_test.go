package workload

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"mlfqbench/pkg/fsys"
	"sync"
)

var errInjected = errors.New("injected failure")

// memFS is an in-memory FileSystem that records every operation and can be
// told to fail the n-th occurrence of one.
type memFS struct {
	mu    sync.Mutex
	files map[string][]byte
	ops   []string

	failOp string
	failAt int
	seen   map[string]int
}

func newMemFS() *memFS {
	return &memFS{files: map[string][]byte{}, seen: map[string]int{}}
}

// failOn makes the n-th (1-based) call of op return errInjected.
func (m *memFS) failOn(op string, n int) *memFS {
	m.failOp = op
	m.failAt = n
	return m
}

func (m *memFS) record(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, op)
	m.seen[op]++
	if op == m.failOp && m.seen[op] == m.failAt {
		return errInjected
	}
	return nil
}

func (m *memFS) Create(name string) (fsys.File, error) {
	if err := m.record("create"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.files[name] = nil
	m.mu.Unlock()
	return &memFile{fs: m, name: name}, nil
}

func (m *memFS) Open(name string) (fsys.File, error) {
	if err := m.record("open"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	data, ok := m.files[name]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	return &memFile{fs: m, name: name, reader: bytes.NewReader(data)}, nil
}

func (m *memFS) Remove(name string) error {
	if err := m.record("remove"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	delete(m.files, name)
	return nil
}

func (m *memFS) Exists(name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[name]
	return ok, nil
}

func (m *memFS) operations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ops...)
}

type memFile struct {
	fs     *memFS
	name   string
	reader *bytes.Reader
}

func (f *memFile) Write(p []byte) (int, error) {
	if err := f.fs.record("write"); err != nil {
		return 0, err
	}
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	f.fs.files[f.name] = append(f.fs.files[f.name], p...)
	return len(p), nil
}

func (f *memFile) Read(p []byte) (int, error) {
	if err := f.fs.record("read"); err != nil {
		return 0, err
	}
	return f.reader.Read(p)
}

func (f *memFile) Close() error {
	return f.fs.record("close")
}
