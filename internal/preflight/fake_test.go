package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// call records one Runner invocation.
type call struct {
	Dir  string
	Name string
	Args []string
}

// reply is what fakeRunner returns for a program.
type reply struct {
	stdout string
	err    error
	// block waits for the context to end and returns its error.
	block bool
}

// fakeRunner returns canned replies keyed by program name.
type fakeRunner struct {
	replies map[string]reply
	calls   []call
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{replies: make(map[string]reply)}
}

func (f *fakeRunner) on(name string, r reply) *fakeRunner {
	f.replies[name] = r
	return f
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	f.calls = append(f.calls, call{Dir: dir, Name: name, Args: args})
	r := f.replies[name]
	if r.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return r.stdout, r.err
}

func (f *fakeRunner) called(name string) bool {
	for _, c := range f.calls {
		if c.Name == name {
			return true
		}
	}
	return false
}

// newProject creates a project root containing the given marker files and
// returns the root and the path of src/app.ts inside it.
func newProject(t *testing.T, markers ...string) (string, string) {
	t.Helper()
	root := t.TempDir()
	for _, m := range markers {
		require.NoError(t, os.WriteFile(filepath.Join(root, m), []byte("{}"), 0644))
	}
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0755))
	file := filepath.Join(src, "app.ts")
	require.NoError(t, os.WriteFile(file, []byte("export const x = 1\n"), 0644))
	return root, file
}

// writeScript writes an executable shell script into dir.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}
