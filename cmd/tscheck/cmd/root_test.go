package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/tscheck/internal/errors"
	"github.com/Aman-CERP/tscheck/internal/ui"
	"github.com/Aman-CERP/tscheck/pkg/version"
)

const (
	tscTwoErrors = "src/app.ts(3,7): error TS2322: Type 'string' is not assignable to type 'number'.\n" +
		"src/app.ts(8,1): error TS2304: Cannot find name 'foo'.\n"
	qltyOneIssue = "src/app.ts:3:7 error no-unused-vars\n"
)

func TestRootCmd_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{}, `required flag(s) "file" not set`},
		{"conflicting only flags", []string{"--file", "a.ts", "--tsc-only", "--qlty-only"}, "tsc-only"},
		{"unknown flag", []string{"--file", "a.ts", "--frobnicate"}, "unknown flag"},
		{"positional argument", []string{"--file", "a.ts", "extra"}, "extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)

			stdout, stderr, code := runCLI(t, tt.args...)

			assert.Equal(t, ExitUsage, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.want)
			assert.Contains(t, stderr, "--help")
		})
	}
}

func TestRootCmd_NoProjectRoot(t *testing.T) {
	// Given: a file outside any project
	isolateEnv(t)
	bin := fakeTools(t, "", 0, "", 0)
	file := filepath.Join(t.TempDir(), "loose.ts")

	// When: running a check
	stdout, _, code := runCLI(t, "--file", file)

	// Then: the diagnostic goes to stdout and nothing runs
	assert.Equal(t, ExitFailed, code)
	assert.Equal(t, "Could not find project root (no tsconfig.json or package.json)\n", stdout)
	assert.False(t, ran(bin, "npx"))
	assert.False(t, ran(bin, "qlty"))
}

func TestRootCmd_CleanFile(t *testing.T) {
	isolateEnv(t)
	fakeTools(t, "", 0, "Checked 1 file\n", 0)
	_, file := newProject(t, "tsconfig.json")

	stdout, _, code := runCLI(t, "--file", file)

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "✅ No TypeScript or lint errors\n", stdout)
}

func TestRootCmd_ErrorsFound_TextReport(t *testing.T) {
	// Given: both tools report problems and exit non-zero
	isolateEnv(t)
	fakeTools(t, tscTwoErrors, 2, qltyOneIssue, 1)
	_, file := newProject(t, "tsconfig.json")

	// When: running a check
	stdout, _, code := runCLI(t, "--file", file)

	// Then: the report lists both sections and the exit code is 1
	assert.Equal(t, ExitFailed, code)
	want := "⚠️ 2 type error(s), 1 lint issue(s)\n" +
		"\n--- TypeScript Errors ---\n" +
		"  src/app.ts(3,7): error TS2322: Type 'string' is not assignable to type 'number'.\n" +
		"  src/app.ts(8,1): error TS2304: Cannot find name 'foo'.\n" +
		"\n--- Lint Issues ---\n" +
		"  src/app.ts:3:7 error no-unused-vars\n"
	assert.Equal(t, want, stdout)
}

func TestRootCmd_JSONOutput(t *testing.T) {
	isolateEnv(t)
	fakeTools(t, tscTwoErrors, 2, "", 0)
	_, file := newProject(t, "tsconfig.json")

	stdout, _, code := runCLI(t, "--file", file, "--json")

	assert.Equal(t, ExitFailed, code)
	var got struct {
		HasErrors  bool     `json:"has_errors"`
		TSCErrors  []string `json:"tsc_errors"`
		QltyErrors []string `json:"qlty_errors"`
		Summary    string   `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.True(t, got.HasErrors)
	assert.Len(t, got.TSCErrors, 2)
	assert.NotNil(t, got.QltyErrors)
	assert.Empty(t, got.QltyErrors)
	assert.Equal(t, "2 type error(s)", got.Summary)
	assert.Contains(t, stdout, `"qlty_errors": []`)
}

func TestRootCmd_OnlyFlags(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		wantTSC  bool
		wantQlty bool
	}{
		{"tsc only", "--tsc-only", true, false},
		{"qlty only", "--qlty-only", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			bin := fakeTools(t, "", 0, "", 0)
			_, file := newProject(t, "tsconfig.json")

			_, _, code := runCLI(t, "--file", file, tt.flag)

			assert.Equal(t, ExitOK, code)
			assert.Equal(t, tt.wantTSC, ran(bin, "npx"))
			assert.Equal(t, tt.wantQlty, ran(bin, "qlty"))
		})
	}
}

func TestRootCmd_NoTSConfig_SkipsTypeChecker(t *testing.T) {
	isolateEnv(t)
	bin := fakeTools(t, tscTwoErrors, 2, "", 0)
	_, file := newProject(t, "package.json")

	stdout, _, code := runCLI(t, "--file", file)

	assert.Equal(t, ExitOK, code)
	assert.False(t, ran(bin, "npx"))
	assert.Contains(t, stdout, "No TypeScript or lint errors")
}

func TestRootCmd_ProjectRootOverride(t *testing.T) {
	isolateEnv(t)
	bin := fakeTools(t, "", 0, "", 0)
	root, _ := newProject(t, "tsconfig.json")
	file := filepath.Join(t.TempDir(), "elsewhere.ts")

	_, _, code := runCLI(t, "--file", file, "--project-root", root)

	assert.Equal(t, ExitOK, code)
	assert.True(t, ran(bin, "npx"))
}

func TestRootCmd_ProjectConfigControlsMaxErrors(t *testing.T) {
	// Given: a project config capping lists at one entry
	isolateEnv(t)
	fakeTools(t, tscTwoErrors, 2, "", 0)
	root, file := newProject(t, "tsconfig.json")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".tscheck.yaml"), []byte("output:\n  max_errors: 1\n"), 0644))

	// When: running a check
	stdout, _, _ := runCLI(t, "--file", file)

	// Then: only one type error is reported
	assert.Contains(t, stdout, "1 type error(s)")
}

func TestRootCmd_EnvOverridesCommand(t *testing.T) {
	isolateEnv(t)
	bin := fakeTools(t, "", 0, "", 0)
	script := filepath.Join(t.TempDir(), "my-tsc")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 'src/app.ts(1,1): error TS1005: x'\nexit 2\n"), 0755))
	t.Setenv("TSCHECK_TSC_COMMAND", script+" --noEmit")
	_, file := newProject(t, "tsconfig.json")

	stdout, _, code := runCLI(t, "--file", file, "--tsc-only")

	assert.Equal(t, ExitFailed, code)
	assert.False(t, ran(bin, "npx"))
	assert.Contains(t, stdout, "error TS1005")
}

func TestRootCmd_MissingTypeChecker(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TSCHECK_TSC_COMMAND", "tscheck-no-such-binary --noEmit")
	_, file := newProject(t, "tsconfig.json")

	stdout, _, code := runCLI(t, "--file", file, "--tsc-only")

	assert.Equal(t, ExitFailed, code)
	assert.Contains(t, stdout, "  tsc not found - is TypeScript installed?\n")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	// Given: a project config that fails validation
	isolateEnv(t)
	root, file := newProject(t, "tsconfig.json")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".tscheck.yaml"), []byte("output:\n  max_errors: -1\n"), 0644))

	// When: running a check
	stdout, stderr, code := runCLI(t, "--file", file)

	// Then: the structured error is printed to stderr
	assert.Equal(t, ExitFailed, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: invalid configuration")
	assert.Contains(t, stderr, "Code: "+errors.ErrCodeConfigInvalid)
}

func TestRootCmd_ExplicitConfigMissing(t *testing.T) {
	isolateEnv(t)
	_, file := newProject(t, "tsconfig.json")

	_, stderr, code := runCLI(t, "--file", file, "--config", filepath.Join(t.TempDir(), "none.yaml"))

	assert.Equal(t, ExitFailed, code)
	assert.Contains(t, stderr, errors.ErrCodeConfigNotFound)
}

func TestRootCmd_ProfileFlags(t *testing.T) {
	// Given: a clean project and profile outputs requested
	isolateEnv(t)
	fakeTools(t, "", 0, "", 0)
	_, file := newProject(t, "tsconfig.json")
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.prof")
	mem := filepath.Join(dir, "mem.prof")

	// When: running a check
	_, _, code := runCLI(t, "--file", file, "--profile-cpu", cpu, "--profile-mem", mem)

	// Then: both profiles are written on exit
	assert.Equal(t, ExitOK, code)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
}

func TestRootCmd_VersionFlag(t *testing.T) {
	stdout, _, code := runCLI(t, "--version")

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "tscheck version "+version.Version+"\n", stdout)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	assert.True(t, names["doctor"])
	assert.True(t, names["config"])
	assert.True(t, names["logs"])
	assert.True(t, names["version"])
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, 7, ExitCode(&ExitError{Code: 7}))
	assert.Equal(t, ExitFailed, ExitCode(errors.InternalError("boom", nil)))
	assert.Equal(t, ExitUsage, ExitCode(assert.AnError))
}

func TestApp_Styles_PlainWhenNotTerminal(t *testing.T) {
	// Given: output going to a buffer
	a := newApp()
	var buf bytes.Buffer

	// When: resolving styles
	s := a.styles(&buf)

	// Then: unstyled components are returned and render text unchanged
	require.NotNil(t, s)
	assert.Equal(t, "Header", s.Header.Render("Header"))
	assert.Equal(t, ui.NoColorStyles().Error.Render("x"), s.Error.Render("x"))
}
