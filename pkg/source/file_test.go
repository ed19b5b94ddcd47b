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

package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/devicemap/pkg/devicemap"
)

const listingJSON = `[
  {"kind": "audio", "id": 1, "name": "Mic", "key": "A1"},
  {"kind": "audio", "id": 2, "name": "Mic", "key": "B2"},
  {"kind": "video", "id": 7, "name": "FaceTime HD Camera", "key": "0x1420000005ac8600"},
  {"kind": "audio", "name": "Aggregate Device"}
]`

const listingYAML = `
- kind: audio
  id: 1
  name: Mic
  key: A1
- kind: video
  id: 7
  name: FaceTime HD Camera
`

func writeListing(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestFileSourceJSON(t *testing.T) {
	src := NewFileSource(writeListing(t, "devices.json", listingJSON), nil)

	handles, err := src.Enumerate(context.Background(), devicemap.KindAudioInput)
	require.NoError(t, err)
	require.Len(t, handles, 3)

	id, ok := handles[1].HardwareID()
	assert.True(t, ok)
	assert.Equal(t, devicemap.HardwareID(2), id)
	assert.Equal(t, "B2", handles[1].UniqueKey())

	_, ok = handles[2].HardwareID()
	assert.False(t, ok, "entries without an id expose none")

	video, err := src.Enumerate(context.Background(), devicemap.KindVideoInput)
	require.NoError(t, err)
	require.Len(t, video, 1)
	assert.Equal(t, "FaceTime HD Camera", video[0].DisplayName())
}

func TestFileSourceYAML(t *testing.T) {
	src := NewFileSource(writeListing(t, "devices.yml", listingYAML), nil)

	handles, err := src.Enumerate(context.Background(), devicemap.KindVideoInput)
	require.NoError(t, err)
	require.Len(t, handles, 1)
	assert.Equal(t, devicemap.KindVideoInput, handles[0].Kind())
	assert.Empty(t, handles[0].UniqueKey())
}

func TestFileSourceFeedsBuild(t *testing.T) {
	r := devicemap.NewResolver(NewFileSource(writeListing(t, "devices.json", listingJSON), nil), nil)

	name, err := r.ResolveDownstreamName(context.Background(), devicemap.KindAudioInput, "B2")
	require.Error(t, err, "the id-less entry makes the snapshot inconsistent")
	assert.Empty(t, name)

	clean := `[{"kind":"audio","id":1,"name":"Mic","key":"A1"},{"kind":"audio","id":2,"name":"Mic","key":"B2"}]`
	r = devicemap.NewResolver(NewFileSource(writeListing(t, "clean.json", clean), nil), nil)

	name, err = r.ResolveDownstreamName(context.Background(), devicemap.KindAudioInput, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Mic (2)", name)
}

func TestFileSourceErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{"},
		{name: "missing kind", body: `[{"id":1,"name":"Mic"}]`},
		{name: "unknown kind", body: `[{"kind":"screen","id":1,"name":"Display"}]`},
		{name: "missing name", body: `[{"kind":"audio","id":1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFileSource(writeListing(t, "devices.json", tt.body), nil)

			_, err := src.Enumerate(context.Background(), devicemap.KindAudioInput)
			require.ErrorIs(t, err, ErrInvalidListing)
		})
	}

	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.json"), nil).
		Enumerate(context.Background(), devicemap.KindAudioInput)
	require.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewFileSource("unused.json", nil).Enumerate(ctx, devicemap.KindAudioInput)
	require.ErrorIs(t, err, context.Canceled)
}
