package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/logging"
)

const serviceName = "monstor-tickets"

// Telemetry holds CLI flags for OpenTelemetry tracing
type Telemetry struct {
	endpoint string
	insecure bool
}

func (x *Telemetry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "otel-endpoint",
			Category:    "Telemetry",
			Usage:       "OTLP gRPC endpoint for traces; tracing is off when empty",
			Sources:     cli.EnvVars("MONSTOR_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"),
			Destination: &x.endpoint,
		},
		&cli.BoolFlag{
			Name:        "otel-insecure",
			Category:    "Telemetry",
			Usage:       "Disable TLS for the OTLP endpoint",
			Sources:     cli.EnvVars("MONSTOR_OTEL_INSECURE", "OTEL_EXPORTER_OTLP_INSECURE"),
			Destination: &x.insecure,
		},
	}
}

func (x Telemetry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", x.endpoint),
		slog.Bool("insecure", x.insecure),
	)
}

func (x *Telemetry) Enabled() bool {
	return x.endpoint != ""
}

// Configure installs the global tracer provider. The returned function
// flushes and stops it.
func (x *Telemetry) Configure(ctx context.Context, version string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !x.Enabled() {
		return noop, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(x.endpoint)}
	if x.insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return noop, goerr.Wrap(err, "failed to create OTLP exporter", goerr.V("endpoint", x.endpoint))
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return noop, goerr.Wrap(err, "failed to build telemetry resource")
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	logging.Default().Info("Tracing enabled", "endpoint", x.endpoint)
	return provider.Shutdown, nil
}
