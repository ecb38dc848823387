package preflight

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"time"

	"github.com/Aman-CERP/tscheck/internal/errors"
)

// DefaultTimeout is the hard limit for one tool invocation.
const DefaultTimeout = 30 * time.Second

// Tool describes one external checker.
type Tool struct {
	// Name appears in synthetic failure entries.
	Name string

	// Command is the program followed by its fixed arguments.
	Command []string

	// Timeout falls back to DefaultTimeout when zero.
	Timeout time.Duration
}

// DefaultTypeCheckTool returns the tsc invocation through npx.
func DefaultTypeCheckTool() Tool {
	return Tool{
		Name:    "tsc",
		Command: []string{"npx", "tsc", "--noEmit", "--pretty", "false"},
		Timeout: DefaultTimeout,
	}
}

// DefaultLintTool returns the qlty invocation.
func DefaultLintTool() Tool {
	return Tool{
		Name:    "qlty",
		Command: []string{"qlty", "check", "--no-progress"},
		Timeout: DefaultTimeout,
	}
}

func (t Tool) timeout() time.Duration {
	if t.Timeout <= 0 {
		return DefaultTimeout
	}
	return t.Timeout
}

// run executes the tool in dir with extra arguments appended and classifies
// the outcome. A non-zero exit status is not a failure: stdout is returned
// with a nil error. Failures carry ErrCodeToolTimeout, ErrCodeToolNotFound
// or ErrCodeToolFailed.
func (t Tool) run(ctx context.Context, runner Runner, logger *slog.Logger, dir string, extra ...string) (string, error) {
	if len(t.Command) == 0 {
		return "", errors.ToolError(errors.ErrCodeInvalidCommand, t.Name, "command is empty", nil)
	}

	args := make([]string, 0, len(t.Command)-1+len(extra))
	args = append(args, t.Command[1:]...)
	args = append(args, extra...)

	ctx, span := startToolSpan(ctx, t, dir)
	defer span.End()

	timeout := t.timeout()
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	stdout, err := runner.Run(cmdCtx, dir, t.Command[0], args...)
	elapsed := time.Since(start)

	logger.Debug("tool finished",
		slog.String("tool", t.Name),
		slog.Any("command", append([]string{t.Command[0]}, args...)),
		slog.String("dir", dir),
		slog.Duration("duration", elapsed),
		slog.Int("stdout_bytes", len(stdout)))

	outcome, err := classify(cmdCtx, t, timeout, err)
	recordToolRun(ctx, span, t.Name, outcome, elapsed)
	if err != nil {
		return "", err
	}
	return stdout, nil
}

// classify maps a runner error onto the tool failure taxonomy.
func classify(cmdCtx context.Context, t Tool, timeout time.Duration, err error) (string, error) {
	if stderrors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
		return outcomeTimeout, errors.ToolError(errors.ErrCodeToolTimeout, t.Name,
			fmt.Sprintf("%s timed out after %s", t.Name, timeout), cmdCtx.Err())
	}
	if cerr := cmdCtx.Err(); cerr != nil {
		return outcomeFailed, errors.ToolError(errors.ErrCodeToolFailed, t.Name,
			fmt.Sprintf("%s error: %v", t.Name, cerr), cerr)
	}
	if err == nil {
		return outcomeOK, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return outcomeExit, nil
	}
	if isMissingProgram(err, t.Command[0]) {
		return outcomeNotFound, errors.ToolError(errors.ErrCodeToolNotFound, t.Name,
			fmt.Sprintf("%s not found", t.Name), err)
	}
	return outcomeFailed, errors.ToolError(errors.ErrCodeToolFailed, t.Name,
		fmt.Sprintf("%s error: %v", t.Name, err), err)
}

// isMissingProgram reports whether err means the program itself does not
// exist. A missing working directory also fails with ENOENT, on chdir, and
// is an ordinary failure.
func isMissingProgram(err error, program string) bool {
	if stderrors.Is(err, exec.ErrNotFound) {
		return true
	}
	var pathErr *fs.PathError
	if !stderrors.As(err, &pathErr) || pathErr.Op == "chdir" {
		return false
	}
	return pathErr.Path == program && stderrors.Is(pathErr.Err, fs.ErrNotExist)
}
