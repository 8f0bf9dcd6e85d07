// Package telemetry wires OpenTelemetry metrics and traces for the
// blackboard and its promptcache demo client. Exporter selection is
// driven by environment variables (see Init), falling back to stdout
// exporters so a bare `bbctl` invocation still produces readable output.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/anthropics/blackboard"

var (
	initOnce   sync.Once
	initProvs  *Providers
	initErr    error
	meterProv  metric.MeterProvider = otel.GetMeterProvider()
	tracerProv trace.TracerProvider = otel.GetTracerProvider()
)

// Providers bundles the configured meter and tracer providers along with
// a Shutdown func that flushes and closes their exporters.
type Providers struct {
	Meter    metric.MeterProvider
	Tracer   trace.TracerProvider
	Shutdown func(context.Context) error
}

// Init configures global meter/tracer providers from environment
// variables and registers them with otel's global registry:
//
//	BLACKBOARD_OTLP_ENDPOINT set  -> OTLP/HTTP metrics exporter to that endpoint
//	BLACKBOARD_OTLP_ENDPOINT unset -> stdout metrics exporter
//	traces always go to a stdout exporter; there is no trace collector wired up.
//
// Init is idempotent: subsequent calls are no-ops and return the first
// configuration's Providers.
func Init(ctx context.Context) (*Providers, error) {
	initOnce.Do(func() {
		initProvs, initErr = setup(ctx)
		if initErr == nil {
			meterProv = initProvs.Meter
			tracerProv = initProvs.Tracer
			otel.SetMeterProvider(meterProv)
			otel.SetTracerProvider(tracerProv)
		}
	})

	if initErr != nil {
		return nil, initErr
	}
	return initProvs, nil
}

func setup(ctx context.Context) (*Providers, error) {
	traceExp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating stdout trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExp))

	var metricReader sdkmetric.Reader
	if endpoint := os.Getenv("BLACKBOARD_OTLP_ENDPOINT"); endpoint != "" {
		exp, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(endpoint))
		if err != nil {
			return nil, fmt.Errorf("telemetry: creating OTLP metric exporter: %w", err)
		}
		metricReader = sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(15*time.Second))
	} else {
		exp, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("telemetry: creating stdout metric exporter: %w", err)
		}
		metricReader = sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(30*time.Second))
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))

	shutdown := func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("telemetry: shutting down tracer provider: %w", err)
		}
		if err := mp.Shutdown(ctx); err != nil {
			return fmt.Errorf("telemetry: shutting down meter provider: %w", err)
		}
		return nil
	}

	return &Providers{Meter: mp, Tracer: tp, Shutdown: shutdown}, nil
}

// Meter returns a named meter from the globally configured provider. Safe
// to call before Init — instruments created against the no-op provider
// simply record nothing until Init installs a real one.
func Meter(name string) metric.Meter {
	if name == "" {
		name = instrumentationName
	}
	return meterProv.Meter(name)
}

// Tracer returns a named tracer from the globally configured provider.
func Tracer(name string) trace.Tracer {
	if name == "" {
		name = instrumentationName
	}
	return tracerProv.Tracer(name)
}
