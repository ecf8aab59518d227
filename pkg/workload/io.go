package workload

import (
	"fmt"
	"mlfqbench/models"
	"mlfqbench/pkg/fsys"
)

const fillByte = 'X'

// CycleGenerator writes a buffer, reads it back and does a little arithmetic,
// Iterations times, then removes the work file.
type CycleGenerator struct {
	FS           fsys.FileSystem
	WorkFile     string
	Iterations   int
	BufferSize   int
	ComputeSteps int

	// Checksum collects the bounded computation done between cycles
	Checksum int
}

func (g *CycleGenerator) Kind() Kind { return KindIO }

func (g *CycleGenerator) Describe() string {
	return fmt.Sprintf("Performing %d I/O operations...", g.Iterations)
}

func (g *CycleGenerator) Run() (models.WorkloadResult, error) {
	var result models.WorkloadResult
	buf := make([]byte, g.BufferSize)
	g.Checksum = 0

	for i := 0; i < g.Iterations; i++ {
		for j := range buf {
			buf[j] = byte('A' + i%26)
		}

		n, err := writeFile(g.FS, g.WorkFile, buf)
		result.BytesWritten += n
		if err != nil {
			return result, err
		}

		n, err = readFile(g.FS, g.WorkFile, buf)
		result.BytesRead += n
		if err != nil {
			return result, err
		}

		sum := 0
		for k := 0; k < g.ComputeSteps; k++ {
			sum += k
		}
		g.Checksum += sum
		result.Operations++
	}

	if err := g.FS.Remove(g.WorkFile); err != nil {
		return result, fmt.Errorf("cannot remove %s: %w", g.WorkFile, err)
	}

	return result, nil
}

func writeFile(fs fsys.FileSystem, name string, buf []byte) (int, error) {
	f, err := fs.Create(name)
	if err != nil {
		return 0, fmt.Errorf("cannot open %s for writing: %w", name, err)
	}

	n, err := f.Write(buf)
	if err == nil && n != len(buf) {
		err = fmt.Errorf("short write: %d of %d bytes", n, len(buf))
	}
	if err != nil {
		_ = f.Close()
		return n, fmt.Errorf("write failed: %w", err)
	}

	if err = f.Close(); err != nil {
		return n, fmt.Errorf("cannot close %s: %w", name, err)
	}
	return n, nil
}

func readFile(fs fsys.FileSystem, name string, buf []byte) (int, error) {
	f, err := fs.Open(name)
	if err != nil {
		return 0, fmt.Errorf("cannot open %s for reading: %w", name, err)
	}

	n, err := f.Read(buf)
	if err == nil && n != len(buf) {
		err = fmt.Errorf("short read: %d of %d bytes", n, len(buf))
	}
	if err != nil {
		_ = f.Close()
		return n, fmt.Errorf("read failed: %w", err)
	}

	if err = f.Close(); err != nil {
		return n, fmt.Errorf("cannot close %s: %w", name, err)
	}
	return n, nil
}

// ByteWriteGenerator writes one byte per write call, Writes times, into a
// file opened once, then removes it.
type ByteWriteGenerator struct {
	FS       fsys.FileSystem
	WorkFile string
	Writes   int
}

func (g *ByteWriteGenerator) Kind() Kind { return KindIO }

func (g *ByteWriteGenerator) Describe() string {
	return fmt.Sprintf("Performing %d single-byte writes...", g.Writes)
}

func (g *ByteWriteGenerator) Run() (models.WorkloadResult, error) {
	var result models.WorkloadResult

	f, err := g.FS.Create(g.WorkFile)
	if err != nil {
		return result, fmt.Errorf("cannot open %s for writing: %w", g.WorkFile, err)
	}

	b := []byte{fillByte}
	for i := 0; i < g.Writes; i++ {
		n, err := f.Write(b)
		result.BytesWritten += n
		if err == nil && n != 1 {
			err = fmt.Errorf("short write at byte %d", i)
		}
		if err != nil {
			_ = f.Close()
			return result, fmt.Errorf("write failed: %w", err)
		}
		result.Operations++
	}

	if err = f.Close(); err != nil {
		return result, fmt.Errorf("cannot close %s: %w", g.WorkFile, err)
	}

	if err = g.FS.Remove(g.WorkFile); err != nil {
		return result, fmt.Errorf("cannot remove %s: %w", g.WorkFile, err)
	}

	return result, nil
}
