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
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/devicemap/pkg/logger"
)

func TestBuildDuplicateMicrophones(t *testing.T) {
	table, err := Build([]Descriptor{
		audio(1, "Mic", "A1"),
		audio(2, "Mic", "B2"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	records := table.Records()
	assert.Equal(t, "Mic", records[0].DownstreamName())
	assert.Equal(t, "Mic (2)", records[1].DownstreamName())
	assert.Equal(t, "A1", records[0].HostLabel())
	assert.Equal(t, "B2", records[1].HostLabel())

	second, ok := table.LookupByDownstreamName("Mic (2)")
	require.True(t, ok)
	assert.Equal(t, records[1], second)
	assert.Equal(t, HardwareID(2), second.HardwareID())
	assert.True(t, second.Resolved())
}

func TestBuildDistinctNamesAreUnchanged(t *testing.T) {
	table, err := Build([]Descriptor{
		video(10, "FaceTime HD Camera", "0x1420000005ac8600"),
		video(11, "Capture screen 0", ""),
		video(12, "OBS Virtual Camera", "7626645E-4425-469E-9D8B-97E0FA59AC75"),
	})
	require.NoError(t, err)

	for _, r := range table.Records() {
		assert.Equal(t, r.DisplayName(), r.DownstreamName())
	}
}

func TestBuildTwoCamerasResolveUniquely(t *testing.T) {
	table, err := Build([]Descriptor{
		video(1, "Camera", "usb-1"),
		video(2, "Camera", "usb-2"),
	})
	require.NoError(t, err)

	names := downstreamNames(table)
	require.Len(t, names, 2)
	assert.NotEqual(t, names[0], names[1])

	for i, name := range names {
		r, ok := table.LookupByDownstreamName(name)
		require.True(t, ok, name)
		assert.Equal(t, HardwareID(i+1), r.HardwareID())
	}
}

func TestBuildConventions(t *testing.T) {
	descriptors := []Descriptor{
		audio(1, "USB Audio", ""),
		audio(2, "Built-in Microphone", ""),
		audio(3, "USB Audio", ""),
		audio(4, "USB Audio", ""),
	}

	tests := []struct {
		name       string
		convention Convention
		expected   []string
	}{
		{
			name:       "paren ordinal keeps first",
			convention: ConventionParenOrdinal,
			expected:   []string{"USB Audio", "Built-in Microphone", "USB Audio (2)", "USB Audio (3)"},
		},
		{
			name:       "uniform ordinal suffixes all",
			convention: ConventionUniformOrdinal,
			expected:   []string{"USB Audio (1)", "Built-in Microphone", "USB Audio (2)", "USB Audio (3)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Build(descriptors, WithConvention(tt.convention))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, downstreamNames(table))
		})
	}
}

func TestBuildSuffixCollisionSkipsOrdinal(t *testing.T) {
	var buf bytes.Buffer

	table, err := Build([]Descriptor{
		audio(1, "Mic", ""),
		audio(2, "Mic (2)", ""),
		audio(3, "Mic", ""),
		audio(4, "Mic", ""),
	}, WithLogger(logger.New(zerolog.New(&buf))))
	require.NoError(t, err)

	assert.Equal(t, []string{"Mic", "Mic (2)", "Mic (3)", "Mic (4)"}, downstreamNames(table))
	assert.Contains(t, buf.String(), "collides")

	r, ok := table.LookupByDownstreamName("Mic (2)")
	require.True(t, ok)
	assert.Equal(t, HardwareID(2), r.HardwareID())
}

func TestBuildEmpty(t *testing.T) {
	table, err := Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, KindUnspecified, table.Kind())
	assert.Empty(t, table.Records())

	_, err = Build([]Descriptor{}, RequireDevices())
	require.ErrorIs(t, err, ErrEmptyEnumeration)
}

func TestBuildInconsistentEnumeration(t *testing.T) {
	tests := []struct {
		name        string
		descriptors []Descriptor
	}{
		{
			name:        "duplicate hardware id",
			descriptors: []Descriptor{audio(7, "Mic", "A"), audio(7, "Headset", "B")},
		},
		{
			name:        "mixed device classes",
			descriptors: []Descriptor{audio(1, "Mic", ""), video(2, "Camera", "")},
		},
		{
			name:        "missing display name",
			descriptors: []Descriptor{audio(1, "", "A")},
		},
		{
			name:        "shared persistent key",
			descriptors: []Descriptor{audio(1, "Mic", "same"), audio(2, "Mic", "same")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Build(tt.descriptors)
			require.ErrorIs(t, err, ErrInconsistentEnumeration)
			assert.Nil(t, table)
		})
	}
}

func TestLookupMisses(t *testing.T) {
	table, err := Build([]Descriptor{audio(1, "Mic", "A1")})
	require.NoError(t, err)

	r, ok := table.LookupByDownstreamName("Nonexistent")
	assert.False(t, ok)
	assert.False(t, r.Resolved())

	_, ok = table.LookupByDownstreamName("mic")
	assert.False(t, ok, "lookups are case-sensitive")

	_, ok = table.LookupByHostLabel("B2")
	assert.False(t, ok)

	_, ok = table.LookupByHardwareID(99)
	assert.False(t, ok)

	var nilTable *Table
	_, ok = nilTable.LookupByDownstreamName("Mic")
	assert.False(t, ok)
	assert.Equal(t, 0, nilTable.Len())

	var zero Table
	assert.NotPanics(t, func() {
		_, ok = zero.LookupByDownstreamName("Mic")
	})
	assert.False(t, ok)

	_, ok = zero.LookupByHostLabel("A1")
	assert.False(t, ok)
}

func TestLookupByHardwareID(t *testing.T) {
	table, err := Build([]Descriptor{audio(41, "Mic", ""), audio(42, "Mic", "")})
	require.NoError(t, err)

	r, ok := table.LookupByHardwareID(42)
	require.True(t, ok)
	assert.Equal(t, "Mic (2)", r.DownstreamName())
}

func TestHostLabelFallsBackToHardwareID(t *testing.T) {
	table, err := Build([]Descriptor{video(5, "Camera", ""), video(6, "Camera", "  ")})
	require.NoError(t, err)

	records := table.Records()
	assert.Equal(t, "hwid:5", records[0].HostLabel())
	assert.Equal(t, "hwid:6", records[1].HostLabel())

	r, ok := table.LookupByHostLabel("hwid:6")
	require.True(t, ok)
	assert.Equal(t, "Camera (2)", r.DownstreamName())
}

func TestHostLabelFallbackSharesKeyNamespace(t *testing.T) {
	_, err := Build([]Descriptor{audio(7, "Mic", ""), audio(8, "Line In", "hwid:7")})
	require.ErrorIs(t, err, ErrInconsistentEnumeration)
	assert.Contains(t, err.Error(), `"hwid:7"`)
}

func TestHostLabelStableAcrossRebuilds(t *testing.T) {
	labeler := LabelHMAC([]byte("per-install-salt"))

	first, err := Build([]Descriptor{audio(1, "Mic", "A1")}, WithHostLabeler(labeler))
	require.NoError(t, err)

	// same physical device, new object id after a replug
	second, err := Build([]Descriptor{audio(77, "Mic", "A1")}, WithHostLabeler(labeler))
	require.NoError(t, err)

	a := first.Records()[0].HostLabel()
	b := second.Records()[0].HostLabel()
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, first.SnapshotID(), second.SnapshotID())
	assert.NotEqual(t, uuid.Nil, first.SnapshotID())
}

func TestRecordsReturnsCopy(t *testing.T) {
	table, err := Build([]Descriptor{audio(1, "Mic", "")})
	require.NoError(t, err)

	records := table.Records()
	records[0] = Record{}

	r, ok := table.LookupByDownstreamName("Mic")
	require.True(t, ok)
	assert.Equal(t, "Mic", r.DisplayName())
	assert.Equal(t, "Mic", table.Records()[0].DisplayName())
}

func TestRecordJSON(t *testing.T) {
	table, err := Build([]Descriptor{video(3, "Camera", "usb-3"), video(4, "Camera", "")})
	require.NoError(t, err)

	data, err := json.Marshal(table.Records())
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"kind":"video","hardware_id":3,"unique_key":"usb-3","display_name":"Camera","downstream_name":"Camera","host_label":"usb-3"},
		{"kind":"video","hardware_id":4,"display_name":"Camera","downstream_name":"Camera (2)","host_label":"hwid:4"}
	]`, string(data))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Video")
	require.NoError(t, err)
	assert.Equal(t, KindVideoInput, k)

	k, err = ParseKind("audio")
	require.NoError(t, err)
	assert.Equal(t, KindAudioInput, k)

	_, err = ParseKind("screen")
	require.Error(t, err)

	var decoded struct {
		Kind Kind `json:"kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"audio"}`), &decoded))
	assert.Equal(t, KindAudioInput, decoded.Kind)
}

func TestParseConventionAndLabeler(t *testing.T) {
	c, err := ParseConvention("")
	require.NoError(t, err)
	assert.Equal(t, ConventionParenOrdinal, c)

	c, err = ParseConvention("uniform")
	require.NoError(t, err)
	assert.Equal(t, ConventionUniformOrdinal, c)

	_, err = ParseConvention("hash")
	require.Error(t, err)

	l, err := ParseHostLabeler("raw", "")
	require.NoError(t, err)
	assert.Equal(t, "A1", l.HostLabel("A1", 1))

	_, err = ParseHostLabeler("hmac", "")
	require.Error(t, err)

	l, err = ParseHostLabeler("hmac", "salt")
	require.NoError(t, err)
	assert.NotEqual(t, l.HostLabel("A1", 1), l.HostLabel("B2", 1))
	assert.Equal(t, l.HostLabel("", 9), LabelHMAC([]byte("salt")).HostLabel("", 9))

	_, err = ParseHostLabeler("electron", "")
	require.Error(t, err)
}
