package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Aman-CERP/tscheck/internal/errors"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

// ExitError ends a command with a specific exit code after its output
// has already been written.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps a command error to a process exit code. Anything that is
// neither an ExitError nor a CheckError came from cobra's argument and flag
// handling and is a usage error.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	var ce *errors.CheckError
	if stderrors.As(err, &ce) {
		return ExitFailed
	}
	return ExitUsage
}

// reportError prints err for the user unless it only carries an exit code.
func reportError(w io.Writer, commandPath string, err error) {
	var exitErr *ExitError
	if err == nil || stderrors.As(err, &exitErr) {
		return
	}

	var ce *errors.CheckError
	if stderrors.As(err, &ce) {
		slog.Error("command failed", errors.LogAttrs(ce)...)
		_, _ = fmt.Fprint(w, errors.FormatForCLI(ce))
		return
	}

	_, _ = fmt.Fprintf(w, "Error: %s\nRun '%s --help' for usage.\n", err, commandPath)
}
