// Package observability wires the process-wide slog logger.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const instrumentationName = "gsearch"

// Instrument installs the process-wide default logger. The "text" and "json"
// formats write slog records to stderr directly; "otel" bridges them into an
// OpenTelemetry log pipeline using the named exporter ("stdout", "otlp", or
// "otlp-grpc").
func Instrument(level slog.Level, format, exporter string) error {
	switch format {
	case "text", "":
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	case "json":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	case "otel":
		handler, err := newOtelHandler(level, exporter)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(handler))
	default:
		return fmt.Errorf("unsupported log format: %s", format)
	}

	return nil
}

// newOtelHandler builds an otelslog handler over a logger provider with the
// requested exporter and a minimum-severity filter matching level.
func newOtelHandler(level slog.Level, exporter string) (slog.Handler, error) {
	ctx := context.Background()

	var (
		exp sdklog.Exporter
		err error
	)
	switch exporter {
	case "stdout", "":
		exp, err = stdoutlog.New()
	case "otlp":
		// Endpoint, headers and TLS come from the standard OTEL_* environment.
		exp, err = otlploghttp.New(ctx)
	case "otlp-grpc":
		exp, err = otlploggrpc.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported log exporter: %s", exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("creating log exporter: %w", err)
	}

	processor := minsev.NewLogProcessor(sdklog.NewBatchProcessor(exp), severity(level))
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(processor))

	return otelslog.NewHandler(instrumentationName, otelslog.WithLoggerProvider(provider)), nil
}

// severity maps slog levels onto otel log severities.
func severity(level slog.Level) minsev.Severity {
	switch {
	case level <= slog.LevelDebug:
		return minsev.SeverityDebug
	case level <= slog.LevelInfo:
		return minsev.SeverityInfo
	case level <= slog.LevelWarn:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}
