/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package telemetry wires the process-wide OpenTelemetry providers to an
// OTLP/gRPC collector so device table metrics, resolver spans and logs leave
// the process.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.31.0"

	"github.com/carverauto/devicemap/pkg/logger"
)

// Providers owns the SDK providers installed by Setup. The zero value is a
// valid, disabled set.
type Providers struct {
	traces  *sdktrace.TracerProvider
	metrics *sdkmetric.MeterProvider
	logs    *sdklog.LoggerProvider
}

// Enabled reports whether Setup installed exporters.
func (p *Providers) Enabled() bool {
	return p != nil && p.traces != nil
}

// LogWriter returns a zerolog sink feeding the OTLP log exporter, or nil when
// log export is off.
func (p *Providers) LogWriter() io.Writer {
	if p == nil || p.logs == nil {
		return nil
	}

	return NewLogWriter(p.logs)
}

// Shutdown flushes and stops every installed provider.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var errs []error

	if p.traces != nil {
		errs = append(errs, p.traces.Shutdown(ctx))
	}

	if p.metrics != nil {
		errs = append(errs, p.metrics.Shutdown(ctx))
	}

	if p.logs != nil {
		errs = append(errs, p.logs.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

// Setup installs global tracer, meter and (optionally) logger providers that
// export to cfg.Endpoint. A nil or disabled config installs nothing and
// returns disabled Providers.
func Setup(ctx context.Context, cfg *Config, version string, log logger.Logger) (*Providers, error) {
	if log == nil {
		log = logger.Nop()
	}

	if cfg == nil || !cfg.Enabled {
		return &Providers{}, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.serviceName()),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenTelemetry resource: %w", err)
	}

	creds, err := cfg.transportCredentials()
	if err != nil {
		return nil, fmt.Errorf("failed to setup TLS configuration: %w", err)
	}

	p := &Providers{}

	if p.traces, err = newTracerProvider(ctx, cfg, res, creds); err != nil {
		return nil, err
	}

	if p.metrics, err = newMeterProvider(ctx, cfg, res, creds); err != nil {
		_ = p.Shutdown(ctx)

		return nil, err
	}

	if cfg.Logs {
		if p.logs, err = newLoggerProvider(ctx, cfg, res, creds); err != nil {
			_ = p.Shutdown(ctx)

			return nil, err
		}

		global.SetLoggerProvider(p.logs)
	}

	otel.SetTracerProvider(p.traces)
	otel.SetMeterProvider(p.metrics)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Debug().
		Str("endpoint", cfg.Endpoint).
		Str("service", cfg.serviceName()).
		Bool("logs", cfg.Logs).
		Msg("Initialized OpenTelemetry export")

	return p, nil
}
