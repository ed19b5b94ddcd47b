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

package devicemap

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var (
	metricsReaderOnce sync.Once
	metricsReader     *sdkmetric.ManualReader
)

// testReader installs a ManualReader-backed global meter provider once for the
// package; the global provider can only be delegated a single time.
func testReader() *sdkmetric.ManualReader {
	metricsReaderOnce.Do(func() {
		metricsReader = sdkmetric.NewManualReader()
		otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricsReader)))
	})

	return metricsReader
}

func collect(t *testing.T) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, testReader().Collect(context.Background(), &rm))

	return rm
}

func counterValue(rm metricdata.ResourceMetrics, name string, attrs ...attribute.KeyValue) int64 {
	want := attribute.NewSet(attrs...)

	var total int64

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, dp := range sum.DataPoints {
				if dp.Attributes.Equals(&want) {
					total += dp.Value
				}
			}
		}
	}

	return total
}

func histogramCount(rm metricdata.ResourceMetrics, name string, attrs ...attribute.KeyValue) uint64 {
	want := attribute.NewSet(attrs...)

	var total uint64

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}

			hist, ok := m.Data.(metricdata.Histogram[float64])
			if !ok {
				continue
			}

			for _, dp := range hist.DataPoints {
				if dp.Attributes.Equals(&want) {
					total += dp.Count
				}
			}
		}
	}

	return total
}

func TestBuildMetrics(t *testing.T) {
	testReader()

	okAttr := attribute.String("outcome", outcomeOK)
	emptyAttr := attribute.String("outcome", outcomeEmpty)
	badAttr := attribute.String("outcome", outcomeInconsistent)

	before := collect(t)

	_, err := Build([]Descriptor{audio(1, "Mic", "")})
	require.NoError(t, err)

	_, err = Build(nil, RequireDevices())
	require.Error(t, err)

	_, err = Build([]Descriptor{audio(1, "Mic", ""), audio(1, "Mic", "")})
	require.Error(t, err)

	after := collect(t)

	assert.Equal(t, int64(1), counterValue(after, metricBuildsTotal, okAttr)-counterValue(before, metricBuildsTotal, okAttr))
	assert.Equal(t, int64(1), counterValue(after, metricBuildsTotal, emptyAttr)-counterValue(before, metricBuildsTotal, emptyAttr))
	assert.Equal(t, int64(1), counterValue(after, metricBuildsTotal, badAttr)-counterValue(before, metricBuildsTotal, badAttr))
	assert.Equal(t, uint64(1), histogramCount(after, metricBuildDuration, okAttr)-histogramCount(before, metricBuildDuration, okAttr))
}

func TestLookupMetrics(t *testing.T) {
	testReader()

	table, err := Build([]Descriptor{audio(1, "Mic", "A1")})
	require.NoError(t, err)

	hit := []attribute.KeyValue{attribute.String("scheme", schemeHostLabel), attribute.Bool("found", true)}
	miss := []attribute.KeyValue{attribute.String("scheme", schemeDownstream), attribute.Bool("found", false)}

	before := collect(t)

	_, ok := table.LookupByHostLabel("A1")
	require.True(t, ok)

	_, ok = table.LookupByDownstreamName("Nonexistent")
	require.False(t, ok)

	after := collect(t)

	assert.Equal(t, int64(1), counterValue(after, metricLookupsTotal, hit...)-counterValue(before, metricLookupsTotal, hit...))
	assert.Equal(t, int64(1), counterValue(after, metricLookupsTotal, miss...)-counterValue(before, metricLookupsTotal, miss...))
}

func TestBuildOutcome(t *testing.T) {
	assert.Equal(t, outcomeOK, buildOutcome(nil))
	assert.Equal(t, outcomeEmpty, buildOutcome(ErrEmptyEnumeration))
	assert.Equal(t, outcomeInconsistent, buildOutcome(ErrInconsistentEnumeration))
	assert.Equal(t, outcomeError, buildOutcome(errPlatformBusy))
}
