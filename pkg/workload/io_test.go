package workload

import (
	"mlfqbench/pkg/fsys"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleGeneratorLeavesNoWorkFile(t *testing.T) {
	fs := fsys.New()
	workFile := filepath.Join(t.TempDir(), "iotest.txt")

	g := &CycleGenerator{FS: fs, WorkFile: workFile, Iterations: 30, BufferSize: 64, ComputeSteps: 100}
	result, err := g.Run()
	require.NoError(t, err)

	assert.Equal(t, 30, result.Operations)
	assert.Equal(t, 30*64, result.BytesWritten)
	assert.Equal(t, 30*64, result.BytesRead)
	assert.Equal(t, 30*4950, g.Checksum)

	exists, err := fs.Exists(workFile)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCycleGeneratorOperationOrder(t *testing.T) {
	fs := newMemFS()
	g := &CycleGenerator{FS: fs, WorkFile: "iotest.txt", Iterations: 2, BufferSize: 8, ComputeSteps: 10}
	_, err := g.Run()
	require.NoError(t, err)

	cycle := []string{"create", "write", "close", "open", "read", "close"}
	expected := append(append(append([]string{}, cycle...), cycle...), "remove")
	assert.Equal(t, expected, fs.operations())
}

func TestCycleGeneratorWritesIterationPattern(t *testing.T) {
	fs := newMemFS()
	g := &CycleGenerator{FS: fs, WorkFile: "w", Iterations: 28, BufferSize: 4, ComputeSteps: 1}
	fs.failOn("remove", 1)
	_, err := g.Run()
	require.Error(t, err)

	// the last iteration (27) wraps around to 'B'
	assert.Equal(t, []byte("BBBB"), fs.files["w"])
}

func TestIOFailureStopsFurtherIO(t *testing.T) {
	tests := []struct {
		name     string
		failOp   string
		failAt   int
		expected []string
	}{
		{
			name:     "open for writing",
			failOp:   "create",
			failAt:   2,
			expected: []string{"create", "write", "close", "open", "read", "close", "create"},
		},
		{
			name:     "write",
			failOp:   "write",
			failAt:   1,
			expected: []string{"create", "write", "close"},
		},
		{
			name:     "open for reading",
			failOp:   "open",
			failAt:   1,
			expected: []string{"create", "write", "close", "open"},
		},
		{
			name:     "read",
			failOp:   "read",
			failAt:   3,
			expected: []string{"create", "write", "close", "open", "read", "close", "create", "write", "close", "open", "read", "close", "create", "write", "close", "open", "read", "close"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newMemFS().failOn(tt.failOp, tt.failAt)
			g := &CycleGenerator{FS: fs, WorkFile: "iotest.txt", Iterations: 5, BufferSize: 16, ComputeSteps: 1}

			_, err := g.Run()
			require.Error(t, err)
			assert.ErrorIs(t, err, errInjected)
			assert.Equal(t, tt.expected, fs.operations())
		})
	}
}

func TestCycleGeneratorShortRead(t *testing.T) {
	fs := newMemFS()
	g := &CycleGenerator{FS: &truncatingFS{memFS: fs}, WorkFile: "w", Iterations: 3, BufferSize: 8, ComputeSteps: 1}

	result, err := g.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short read")
	assert.Equal(t, 0, result.Operations)
	assert.Equal(t, []string{"create", "write", "close", "open", "read", "close"}, fs.operations())
}

// truncatingFS drops the last byte of every write.
type truncatingFS struct {
	*memFS
}

func (t *truncatingFS) Create(name string) (fsys.File, error) {
	f, err := t.memFS.Create(name)
	if err != nil {
		return nil, err
	}
	return &truncatingFile{File: f}, nil
}

type truncatingFile struct {
	fsys.File
}

func (f *truncatingFile) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := f.File.Write(p[:len(p)-1])
	return n + 1, err
}

func TestByteWriteGenerator(t *testing.T) {
	fs := fsys.New()
	workFile := filepath.Join(t.TempDir(), "iotest.txt")

	g := &ByteWriteGenerator{FS: fs, WorkFile: workFile, Writes: 250}
	result, err := g.Run()
	require.NoError(t, err)
	assert.Equal(t, 250, result.Operations)
	assert.Equal(t, 250, result.BytesWritten)

	exists, err := fs.Exists(workFile)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestByteWriteGeneratorOneCallPerByte(t *testing.T) {
	fs := newMemFS()
	g := &ByteWriteGenerator{FS: fs, WorkFile: "w", Writes: 3}
	_, err := g.Run()
	require.NoError(t, err)
	assert.Equal(t, []string{"create", "write", "write", "write", "close", "remove"}, fs.operations())
}

func TestByteWriteGeneratorFailure(t *testing.T) {
	fs := newMemFS().failOn("write", 4)
	g := &ByteWriteGenerator{FS: fs, WorkFile: "w", Writes: 10}

	result, err := g.Run()
	require.ErrorIs(t, err, errInjected)
	assert.Equal(t, 3, result.Operations)
	assert.Equal(t, []string{"create", "write", "write", "write", "write", "close"}, fs.operations())
}
