package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// ResolveProgram finds the executable of a workload program.
// Names containing a path separator are used as given. Otherwise dir, the
// directory of the running executable and PATH are searched, in that order.
func ResolveProgram(dir string, program string) (string, error) {
	if program == "" {
		return "", fmt.Errorf("empty program name: %w", exec.ErrNotFound)
	}

	if runtime.GOOS == "windows" && filepath.Ext(program) == "" {
		program += ".exe"
	}

	if strings.ContainsRune(program, os.PathSeparator) || strings.ContainsRune(program, '/') {
		if !isExecutable(program) {
			return "", fmt.Errorf("%s: %w", program, exec.ErrNotFound)
		}
		return program, nil
	}

	var candidates []string
	if dir != "" {
		candidates = append(candidates, filepath.Join(dir, program))
	}
	if self, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(self), program))
	}

	for _, candidate := range candidates {
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return exec.LookPath(program)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

// WorkFileName returns the work file of the process pid: the pid is inserted
// before the extension of base so concurrent instances never share a file.
func WorkFileName(dir string, base string, pid int) string {
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + "-" + strconv.Itoa(pid) + ext
	return filepath.Join(dir, name)
}
