package preflight

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/tscheck/internal/errors"
)

// DefaultTSConfig gates the type checker.
const DefaultTSConfig = "tsconfig.json"

// typeErrorMarker identifies a diagnostic line in tsc's plain output.
const typeErrorMarker = "error TS"

// TypeChecker runs tsc over the whole project and keeps the diagnostics
// relevant to one file.
type TypeChecker struct {
	tool     Tool
	runner   Runner
	tsconfig string
	limit    int
	logger   *slog.Logger
}

// Check returns up to limit type errors for filePath. It returns an empty
// list without running anything when the tsconfig file is absent from root.
// Failures are returned as a single synthetic entry.
func (tc *TypeChecker) Check(ctx context.Context, root, filePath string) []string {
	if _, err := os.Stat(filepath.Join(root, tc.tsconfig)); err != nil {
		tc.logger.Debug("type check skipped",
			slog.String("root", root),
			slog.String("tsconfig", tc.tsconfig))
		return []string{}
	}

	stdout, err := tc.tool.run(ctx, tc.runner, tc.logger, root)
	if err != nil {
		entry := tc.failureEntry(err)
		tc.logger.Warn("type check failed", errors.LogAttrs(err)...)
		return []string{entry}
	}

	found := ParseTypeErrors(stdout, filePath, tc.limit)
	tc.logger.Debug("type check parsed",
		slog.String("file", filePath),
		slog.Int("matches", len(found)))
	return found
}

func (tc *TypeChecker) failureEntry(err error) string {
	switch {
	case errors.HasCode(err, errors.ErrCodeToolNotFound):
		return fmt.Sprintf("%s not found - is TypeScript installed?", tc.tool.Name)
	default:
		var ce *errors.CheckError
		if stderrors.As(err, &ce) {
			return ce.Message
		}
		return fmt.Sprintf("%s error: %v", tc.tool.Name, err)
	}
}

// ParseTypeErrors extracts trimmed "error TS" lines from tsc output.
// A line is kept when it names the base name of filePath, or when nothing
// has been kept yet, so one project-wide error can surface even if the
// file itself is clean. At most limit lines are returned; limit <= 0 means
// no cap. The result is never nil.
func ParseTypeErrors(stdout, filePath string, limit int) []string {
	name := filepath.Base(filePath)
	found := []string{}

	for _, line := range strings.Split(stdout, "\n") {
		if limit > 0 && len(found) >= limit {
			break
		}
		if !strings.Contains(line, typeErrorMarker) {
			continue
		}
		if strings.Contains(line, name) || len(found) == 0 {
			found = append(found, strings.TrimSpace(line))
		}
	}

	return found
}
