package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// runCLI executes the command tree with args and captures its output.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	a := newApp()
	var out, errOut bytes.Buffer
	a.root.SetOut(&out)
	a.root.SetErr(&errOut)
	code = a.execute(context.Background(), args)
	return out.String(), errOut.String(), code
}

// isolateEnv keeps the developer's config and TSCHECK_* variables out of a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, v := range []string{"TSCHECK_TSC_COMMAND", "TSCHECK_QLTY_COMMAND", "TSCHECK_TIMEOUT",
		"TSCHECK_MAX_ERRORS", "TSCHECK_LOG_LEVEL", "TSCHECK_TSCONFIG"} {
		t.Setenv(v, "")
	}
}

// fakeTools puts npx and qlty scripts first on PATH. Each prints stdout and
// exits with code; a script also touches <bin>/<name>.ran when invoked.
func fakeTools(t *testing.T, tscOut string, tscCode int, qltyOut string, qltyCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	bin := t.TempDir()
	write := func(name, out string, code int) {
		body := "#!/bin/sh\ntouch \"" + filepath.Join(bin, name+".ran") + "\"\n" +
			"cat <<'OUT'\n" + out + "OUT\n" +
			"exit " + string(rune('0'+code)) + "\n"
		require.NoError(t, os.WriteFile(filepath.Join(bin, name), []byte(body), 0755))
	}
	write("npx", tscOut, tscCode)
	write("qlty", qltyOut, qltyCode)
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	return bin
}

func ran(bin, name string) bool {
	_, err := os.Stat(filepath.Join(bin, name+".ran"))
	return err == nil
}

// newProject creates a project with the given markers and returns its root
// and the path of src/app.ts.
func newProject(t *testing.T, markers ...string) (string, string) {
	t.Helper()
	root := t.TempDir()
	for _, m := range markers {
		require.NoError(t, os.WriteFile(filepath.Join(root, m), []byte("{}"), 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	file := filepath.Join(root, "src", "app.ts")
	require.NoError(t, os.WriteFile(file, []byte("export {}\n"), 0644))
	return root, file
}
