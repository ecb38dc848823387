// Package telemetry installs OpenTelemetry providers that print spans and
// metrics for a single tscheck run.
package telemetry

import (
	"context"
	stderrors "errors"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/Aman-CERP/tscheck/internal/errors"
	"github.com/Aman-CERP/tscheck/pkg/version"
)

// ServiceName identifies tscheck in exported telemetry.
const ServiceName = "tscheck"

// Setup installs global tracer and meter providers exporting to w as
// pretty-printed JSON. The returned shutdown flushes both and must be called
// before the process exits.
//
//	shutdown, err := telemetry.Setup(os.Stderr)
//	if err != nil {
//	    return err
//	}
//	defer shutdown(context.Background())
func Setup(w io.Writer) (shutdown func(context.Context) error, err error) {
	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version.Version),
	)

	traceExp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, errors.InternalError("failed to create trace exporter", err)
	}
	metricExp, err := stdoutmetric.New(stdoutmetric.WithWriter(w), stdoutmetric.WithPrettyPrint())
	if err != nil {
		return nil, errors.InternalError("failed to create metric exporter", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(traceExp),
		trace.WithResource(res),
		trace.WithSampler(trace.AlwaysSample()),
	)
	mp := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(metricExp)),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	return func(ctx context.Context) error {
		return stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
