package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkFileName(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		base     string
		pid      int
		expected string
	}{
		{name: "with extension", dir: "work", base: "iotest.txt", pid: 12, expected: filepath.Join("work", "iotest-12.txt")},
		{name: "without extension", dir: ".", base: "iotest", pid: 7, expected: "iotest-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WorkFileName(tt.dir, tt.base, tt.pid))
		})
	}
}

func TestResolveProgram(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bits are not used on windows")
	}

	dir := t.TempDir()
	program := filepath.Join(dir, "cpubound")
	require.NoError(t, os.WriteFile(program, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain"), []byte("data"), 0o644))

	path, err := ResolveProgram(dir, "cpubound")
	require.NoError(t, err)
	assert.Equal(t, program, path)

	path, err = ResolveProgram("", program)
	require.NoError(t, err)
	assert.Equal(t, program, path)

	_, err = ResolveProgram(dir, "plain-missing-program-xyz")
	assert.ErrorIs(t, err, exec.ErrNotFound)

	_, err = ResolveProgram("", filepath.Join(dir, "plain"))
	assert.ErrorIs(t, err, exec.ErrNotFound)

	_, err = ResolveProgram(dir, "")
	assert.ErrorIs(t, err, exec.ErrNotFound)
}
