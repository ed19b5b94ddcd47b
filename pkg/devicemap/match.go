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

import "fmt"

// MatchesLiveHandle reports whether handle denotes the same physical device as
// record. Handles of another device class never match. When the handle exposes
// a hardware ID that ID decides; otherwise a non-empty persistent key must be
// equal on both sides.
func MatchesLiveHandle(record Record, handle LiveHandle) bool {
	if handle == nil || !record.resolved {
		return false
	}

	if handle.Kind() != record.kind {
		return false
	}

	if id, ok := handle.HardwareID(); ok {
		return id == record.hardwareID
	}

	key := handle.UniqueKey()

	return key != "" && key == record.uniqueKey
}

// MatchesName reports whether dest is exactly the record's display name or
// downstream name. Comparison is case-sensitive; partial matches are the
// caller's problem.
func MatchesName(record Record, dest string) bool {
	if !record.resolved {
		return false
	}

	return dest == record.displayName || dest == record.downstreamName
}

// DescriptorOf converts a freshly enumerated handle into the raw descriptor
// Build consumes. Enumerated handles must carry a hardware ID.
func DescriptorOf(handle LiveHandle) (Descriptor, error) {
	if handle == nil {
		return Descriptor{}, fmt.Errorf("%w: nil device handle", ErrInconsistentEnumeration)
	}

	id, ok := handle.HardwareID()
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: device %q has no hardware id",
			ErrInconsistentEnumeration, handle.DisplayName())
	}

	return Descriptor{
		Kind:        handle.Kind(),
		HardwareID:  id,
		DisplayName: handle.DisplayName(),
		UniqueKey:   handle.UniqueKey(),
	}, nil
}
