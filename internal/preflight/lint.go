package preflight

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/tscheck/internal/errors"
)

// Linter runs the lint tool on a single file.
type Linter struct {
	tool   Tool
	runner Runner
	limit  int
	logger *slog.Logger
}

// Check returns up to limit lint issues for filePath. A linter that is not
// installed yields an empty list. Other failures are returned as a single
// synthetic entry.
func (l *Linter) Check(ctx context.Context, root, filePath string) []string {
	stdout, err := l.tool.run(ctx, l.runner, l.logger, root, LintTarget(root, filePath))
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeToolNotFound) {
			l.logger.Debug("lint skipped, tool not installed", slog.String("tool", l.tool.Name))
			return []string{}
		}
		l.logger.Warn("lint failed", errors.LogAttrs(err)...)
		var ce *errors.CheckError
		if stderrors.As(err, &ce) {
			return []string{ce.Message}
		}
		return []string{l.tool.Name + " error: " + err.Error()}
	}

	found := ParseLintIssues(stdout, l.limit)
	l.logger.Debug("lint parsed",
		slog.String("file", filePath),
		slog.Int("matches", len(found)))
	return found
}

// LintTarget returns filePath relative to root when it lies inside root,
// otherwise as an absolute path.
func LintTarget(root, filePath string) string {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return filePath
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}
	return rel
}

// ParseLintIssues keeps trimmed, non-blank lines mentioning "error" or
// "warning" in any case. At most limit lines are returned; limit <= 0 means
// no cap. The result is never nil.
func ParseLintIssues(stdout string, limit int) []string {
	found := []string{}

	for _, line := range strings.Split(stdout, "\n") {
		if limit > 0 && len(found) >= limit {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "error") || strings.Contains(lower, "warning") {
			found = append(found, line)
		}
	}

	return found
}
