package preflight

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Tool run outcomes, recorded on spans and metrics.
const (
	outcomeOK       = "ok"
	outcomeExit     = "exit_nonzero"
	outcomeTimeout  = "timeout"
	outcomeNotFound = "not_found"
	outcomeFailed   = "failed"
)

// Package-level tracer and meter. Both are no-ops until a provider is installed.
var (
	tracer = otel.Tracer("tscheck.preflight")
	meter  = otel.Meter("tscheck.preflight")
)

var (
	toolDuration metric.Float64Histogram
	toolRuns     metric.Int64Counter
	issuesFound  metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		toolDuration, err = meter.Float64Histogram(
			"tscheck_tool_duration_seconds",
			metric.WithDescription("Duration of external tool runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		toolRuns, err = meter.Int64Counter(
			"tscheck_tool_runs_total",
			metric.WithDescription("External tool runs by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		issuesFound, err = meter.Int64Histogram(
			"tscheck_issues_found",
			metric.WithDescription("Entries reported per check, by category"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

func startRunSpan(ctx context.Context, req Request) (context.Context, trace.Span) {
	return tracer.Start(ctx, "preflight.Run",
		trace.WithAttributes(
			attribute.String("preflight.file_path", req.FilePath),
			attribute.Bool("preflight.type_checker", req.RunTypeChecker),
			attribute.Bool("preflight.linter", req.RunLinter),
		),
	)
}

func setRunSpanResult(span trace.Span, root string, res *Result) {
	span.SetAttributes(
		attribute.String("preflight.project_root", root),
		attribute.Int("preflight.type_errors", len(res.TypeErrors)),
		attribute.Int("preflight.lint_errors", len(res.LintErrors)),
		attribute.Bool("preflight.has_errors", res.HasErrors),
	)
}

func startToolSpan(ctx context.Context, t Tool, dir string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "preflight.tool",
		trace.WithAttributes(
			attribute.String("tool.name", t.Name),
			attribute.StringSlice("tool.command", t.Command),
			attribute.String("tool.dir", dir),
			attribute.String("tool.timeout", t.timeout().String()),
		),
	)
}

// recordToolRun annotates the tool span and records run metrics.
func recordToolRun(ctx context.Context, span trace.Span, tool, outcome string, elapsed time.Duration) {
	span.SetAttributes(attribute.String("tool.outcome", outcome))
	switch outcome {
	case outcomeTimeout, outcomeFailed:
		span.SetStatus(codes.Error, outcome)
	}

	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("outcome", outcome),
	)
	toolDuration.Record(ctx, elapsed.Seconds(), attrs)
	toolRuns.Add(ctx, 1, attrs)
}

func recordIssues(ctx context.Context, res *Result) {
	if err := initMetrics(); err != nil {
		return
	}
	issuesFound.Record(ctx, int64(len(res.TypeErrors)),
		metric.WithAttributes(attribute.String("category", "type")))
	issuesFound.Record(ctx, int64(len(res.LintErrors)),
		metric.WithAttributes(attribute.String("category", "lint")))
}
