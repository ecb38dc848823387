// Package profiling writes CPU, heap and execution-trace profiles for a
// single tscheck invocation.
package profiling

import (
	"context"
	stderrors "errors"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/Aman-CERP/tscheck/internal/errors"
)

// Paths selects which profiles to write. Empty paths are skipped.
type Paths struct {
	CPU   string
	Mem   string
	Trace string
}

// Enabled reports whether any profile was requested.
func (p Paths) Enabled() bool {
	return p.CPU != "" || p.Mem != "" || p.Trace != ""
}

// Session holds the profiles running for one invocation.
type Session struct {
	paths     Paths
	cpuFile   *os.File
	traceFile *os.File
}

// Start begins CPU profiling and tracing as requested. The heap profile is
// written by Stop so that it reflects the whole run.
func Start(paths Paths) (*Session, error) {
	s := &Session{paths: paths}

	if paths.CPU != "" {
		f, err := create(paths.CPU, "CPU profile")
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, errors.InternalError("failed to start CPU profile", err)
		}
		s.cpuFile = f
	}

	if paths.Trace != "" {
		f, err := create(paths.Trace, "trace")
		if err != nil {
			s.stopCPU()
			return nil, err
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.stopCPU()
			return nil, errors.InternalError("failed to start trace", err)
		}
		s.traceFile = f
	}

	return s, nil
}

// Stop ends CPU profiling and tracing and writes the heap profile.
// It matches the func(context.Context) error shutdown hooks of the CLI.
func (s *Session) Stop(context.Context) error {
	var errs []error

	if err := s.stopCPU(); err != nil {
		errs = append(errs, err)
	}

	if s.traceFile != nil {
		trace.Stop()
		if err := s.traceFile.Close(); err != nil {
			errs = append(errs, err)
		}
		s.traceFile = nil
	}

	if s.paths.Mem != "" {
		if err := WriteHeap(s.paths.Mem); err != nil {
			errs = append(errs, err)
		}
	}

	return stderrors.Join(errs...)
}

func (s *Session) stopCPU() error {
	if s.cpuFile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := s.cpuFile.Close()
	s.cpuFile = nil
	return err
}

// WriteHeap writes a heap profile to path after a garbage collection.
func WriteHeap(path string) error {
	f, err := create(path, "heap profile")
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return errors.New(errors.ErrCodeFileWrite, "failed to write heap profile", err).
			WithDetail("path", path)
	}
	return nil
}

func create(path, what string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeFileWrite, "failed to create "+what+" file", err).
			WithDetail("path", path)
	}
	return f, nil
}
