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

// fakeHandle is a hand-rolled LiveHandle for table-driven tests; gomock
// handles are used where call expectations matter.
type fakeHandle struct {
	kind  Kind
	id    HardwareID
	hasID bool
	key   string
	name  string
}

func (f fakeHandle) Kind() Kind                     { return f.kind }
func (f fakeHandle) HardwareID() (HardwareID, bool) { return f.id, f.hasID }
func (f fakeHandle) UniqueKey() string              { return f.key }
func (f fakeHandle) DisplayName() string            { return f.name }

func videoHandle(id HardwareID, name, key string) fakeHandle {
	return fakeHandle{kind: KindVideoInput, id: id, hasID: true, key: key, name: name}
}

func audio(id HardwareID, name, key string) Descriptor {
	return Descriptor{Kind: KindAudioInput, HardwareID: id, DisplayName: name, UniqueKey: key}
}

func video(id HardwareID, name, key string) Descriptor {
	return Descriptor{Kind: KindVideoInput, HardwareID: id, DisplayName: name, UniqueKey: key}
}

func downstreamNames(t *Table) []string {
	out := make([]string, 0, t.Len())
	for _, r := range t.Records() {
		out = append(out, r.DownstreamName())
	}

	return out
}
