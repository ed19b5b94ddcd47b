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

import "errors"

var (
	// ErrEmptyEnumeration is returned when a build required at least one device
	// and the platform reported none.
	ErrEmptyEnumeration = errors.New("devicemap: enumeration returned no devices")

	// ErrInconsistentEnumeration is returned when the platform enumeration broke
	// its own contract (duplicate hardware IDs, mixed device classes, nameless
	// devices). No partial table is produced.
	ErrInconsistentEnumeration = errors.New("devicemap: inconsistent enumeration")

	// ErrNotFound is returned by Resolver lookups that matched no device.
	// Table lookups report misses through their boolean result instead.
	ErrNotFound = errors.New("devicemap: device not found")

	errUnknownKind       = errors.New("devicemap: unknown device kind")
	errUnknownConvention = errors.New("devicemap: unknown naming convention")
	errUnknownLabel      = errors.New("devicemap: unknown host label format")
)
