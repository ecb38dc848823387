package preflight

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/codes"
)

// DefaultMaxErrors caps each list of entries.
const DefaultMaxErrors = 10

// Checker runs the type checker and linter for one file at a time.
type Checker struct {
	runner    Runner
	typeCheck Tool
	lint      Tool
	tsconfig  string
	maxErrors int
	logger    *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(c *Checker) {
		c.runner = r
	}
}

// WithTypeCheckTool sets the type checker invocation.
func WithTypeCheckTool(t Tool) Option {
	return func(c *Checker) {
		c.typeCheck = t
	}
}

// WithLintTool sets the linter invocation.
func WithLintTool(t Tool) Option {
	return func(c *Checker) {
		c.lint = t
	}
}

// WithMaxErrors caps each list. Values <= 0 are ignored.
func WithMaxErrors(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.maxErrors = n
		}
	}
}

// WithTSConfigName sets the file that gates the type checker.
func WithTSConfigName(name string) Option {
	return func(c *Checker) {
		if name != "" {
			c.tsconfig = name
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		runner:    ExecRunner{},
		typeCheck: DefaultTypeCheckTool(),
		lint:      DefaultLintTool(),
		tsconfig:  DefaultTSConfig,
		maxErrors: DefaultMaxErrors,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run resolves the project root and runs the selected checkers in order.
// The only error returned for a valid request is a missing project root;
// tool failures are reported inside the Result.
func (c *Checker) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := startRunSpan(ctx, req)
	defer span.End()

	root, err := ResolveProjectRoot(req.FilePath, req.ProjectRoot)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "project root not found")
		return nil, err
	}
	c.logger.Debug("project root resolved",
		slog.String("file", req.FilePath),
		slog.String("root", root))

	var typeErrors, lintErrors []string

	if req.RunTypeChecker {
		tc := &TypeChecker{
			tool:     c.typeCheck,
			runner:   c.runner,
			tsconfig: c.tsconfig,
			limit:    c.maxErrors,
			logger:   c.logger,
		}
		typeErrors = tc.Check(ctx, root, req.FilePath)
	}

	if req.RunLinter {
		l := &Linter{
			tool:   c.lint,
			runner: c.runner,
			limit:  c.maxErrors,
			logger: c.logger,
		}
		lintErrors = l.Check(ctx, root, req.FilePath)
	}

	res := NewResult(typeErrors, lintErrors)
	setRunSpanResult(span, root, res)
	recordIssues(ctx, res)

	c.logger.Info("check complete",
		slog.String("file", req.FilePath),
		slog.String("summary", res.Summary))

	return res, nil
}
