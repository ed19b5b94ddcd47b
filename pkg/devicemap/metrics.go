package devicemap

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName           = "carverauto.devicemap"
	metricBuildsTotal   = "devicemap_builds_total"
	metricBuildDuration = "devicemap_build_duration_seconds"
	metricLookupsTotal  = "devicemap_lookups_total"

	outcomeOK           = "ok"
	outcomeEmpty        = "empty"
	outcomeInconsistent = "inconsistent"
	outcomeError        = "error"
)

var (
	// instrumentation handles are cached globally to avoid re-registering OTEL instruments on every call.
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	meterOnce sync.Once
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	buildCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	buildHistogram metric.Float64Histogram
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	lookupCounter metric.Int64Counter
)

func initMeter() {
	meter := otel.Meter(meterName)

	counter, err := meter.Int64Counter(
		metricBuildsTotal,
		metric.WithDescription("Total device table builds by outcome"),
	)
	if err != nil {
		otel.Handle(err)
	}
	buildCounter = counter

	hist, err := meter.Float64Histogram(
		metricBuildDuration,
		metric.WithDescription("Time spent reconciling one enumeration snapshot"),
		metric.WithUnit("s"),
	)
	if err != nil {
		otel.Handle(err)
	}
	buildHistogram = hist

	lookups, err := meter.Int64Counter(
		metricLookupsTotal,
		metric.WithDescription("Total device table lookups by naming scheme and result"),
	)
	if err != nil {
		otel.Handle(err)
	}
	lookupCounter = lookups
}

func buildOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrEmptyEnumeration):
		return outcomeEmpty
	case errors.Is(err, ErrInconsistentEnumeration):
		return outcomeInconsistent
	default:
		return outcomeError
	}
}

func recordBuild(ctx context.Context, duration time.Duration, err error) {
	meterOnce.Do(initMeter)

	outcome := attribute.String("outcome", buildOutcome(err))

	if buildCounter != nil {
		buildCounter.Add(ctx, 1, metric.WithAttributes(outcome))
	}

	if buildHistogram != nil {
		buildHistogram.Record(ctx, duration.Seconds(), metric.WithAttributes(outcome))
	}
}

func recordLookup(ctx context.Context, scheme string, found bool) {
	meterOnce.Do(initMeter)
	if lookupCounter == nil {
		return
	}

	lookupCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scheme", scheme),
		attribute.Bool("found", found),
	))
}
