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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/devicemap/pkg/logger"
)

var errPlatformBusy = errors.New("platform busy")

func twoMicrophones() []LiveHandle {
	return []LiveHandle{
		fakeHandle{kind: KindAudioInput, id: 1, hasID: true, key: "A1", name: "Mic"},
		fakeHandle{kind: KindAudioInput, id: 2, hasID: true, key: "B2", name: "Mic"},
	}
}

func TestResolverResolveHostLabel(t *testing.T) {
	ctrl := gomock.NewController(t)
	enumerator := NewMockEnumerator(ctrl)
	handles := twoMicrophones()

	enumerator.EXPECT().Enumerate(gomock.Any(), KindAudioInput).Return(handles, nil)

	r := NewResolver(enumerator, logger.NewTestLogger())

	handle, err := r.ResolveHostLabel(context.Background(), KindAudioInput, "B2")
	require.NoError(t, err)
	assert.Equal(t, handles[1], handle)
}

func TestResolverResolveDownstreamName(t *testing.T) {
	ctrl := gomock.NewController(t)
	enumerator := NewMockEnumerator(ctrl)

	enumerator.EXPECT().Enumerate(gomock.Any(), KindAudioInput).Return(twoMicrophones(), nil).Times(2)

	r := NewResolver(enumerator, nil)

	name, err := r.ResolveDownstreamName(context.Background(), KindAudioInput, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Mic (2)", name)

	_, err = r.ResolveDownstreamName(context.Background(), KindAudioInput, "C3")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolverAppliesBuildOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	enumerator := NewMockEnumerator(ctrl)

	enumerator.EXPECT().Enumerate(gomock.Any(), KindAudioInput).Return(twoMicrophones(), nil)

	r := NewResolver(enumerator, nil, WithConvention(ConventionUniformOrdinal))

	table, err := r.Snapshot(context.Background(), KindAudioInput)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mic (1)", "Mic (2)"}, downstreamNames(table))
}

func TestResolverErrors(t *testing.T) {
	tests := []struct {
		name     string
		handles  []LiveHandle
		enumErr  error
		label    string
		expected error
	}{
		{
			name:     "unknown label",
			handles:  twoMicrophones(),
			label:    "C3",
			expected: ErrNotFound,
		},
		{
			name:     "enumeration failure",
			enumErr:  errPlatformBusy,
			label:    "A1",
			expected: errPlatformBusy,
		},
		{
			name: "platform returned another class",
			handles: []LiveHandle{
				fakeHandle{kind: KindVideoInput, id: 1, hasID: true, key: "A1", name: "Camera"},
			},
			label:    "A1",
			expected: ErrInconsistentEnumeration,
		},
		{
			name: "handle without hardware id",
			handles: []LiveHandle{
				fakeHandle{kind: KindAudioInput, key: "A1", name: "Mic"},
			},
			label:    "A1",
			expected: ErrInconsistentEnumeration,
		},
		{
			name:     "no devices",
			handles:  nil,
			label:    "A1",
			expected: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			enumerator := NewMockEnumerator(ctrl)

			enumerator.EXPECT().Enumerate(gomock.Any(), KindAudioInput).Return(tt.handles, tt.enumErr)

			r := NewResolver(enumerator, logger.NewTestLogger())

			handle, err := r.ResolveHostLabel(context.Background(), KindAudioInput, tt.label)
			require.ErrorIs(t, err, tt.expected)
			assert.Nil(t, handle)
		})
	}
}

func TestResolverRequireDevices(t *testing.T) {
	ctrl := gomock.NewController(t)
	enumerator := NewMockEnumerator(ctrl)

	enumerator.EXPECT().Enumerate(gomock.Any(), KindVideoInput).Return(nil, nil)

	r := NewResolver(enumerator, nil, RequireDevices())

	_, err := r.Snapshot(context.Background(), KindVideoInput)
	require.ErrorIs(t, err, ErrEmptyEnumeration)
}

func TestResolverSnapshotSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	ctrl := gomock.NewController(t)
	enumerator := NewMockEnumerator(ctrl)

	gomock.InOrder(
		enumerator.EXPECT().Enumerate(gomock.Any(), KindAudioInput).Return(twoMicrophones(), nil),
		enumerator.EXPECT().Enumerate(gomock.Any(), KindAudioInput).Return(nil, errPlatformBusy),
	)

	r := NewResolver(enumerator, nil)

	table, err := r.Snapshot(context.Background(), KindAudioInput)
	require.NoError(t, err)

	_, err = r.Snapshot(context.Background(), KindAudioInput)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	ok := spans[0]
	assert.Equal(t, "devicemap.Resolver/Snapshot", ok.Name())
	assert.NotEqual(t, codes.Error, ok.Status().Code)

	attrs := make(map[string]string)
	for _, kv := range ok.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}

	assert.Equal(t, "audio", attrs["devicemap.kind"])
	assert.Equal(t, table.SnapshotID().String(), attrs["devicemap.snapshot_id"])
	assert.Equal(t, "2", attrs["devicemap.devices"])

	failed := spans[1]
	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.NotEmpty(t, failed.Events(), "error should be recorded on the span")
}
