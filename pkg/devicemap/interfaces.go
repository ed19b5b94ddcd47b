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

//go:generate mockgen -destination=mock_devicemap.go -package=devicemap github.com/carverauto/devicemap/pkg/devicemap Enumerator,LiveHandle

package devicemap

import "context"

// Enumerator is the platform enumeration source. Every call must hit the
// platform afresh. Implementations need not be reentrant.
type Enumerator interface {
	Enumerate(ctx context.Context, kind Kind) ([]LiveHandle, error)
}

// LiveHandle is a device object owned by the platform capture framework.
// This package only compares handles; it never stores or releases them.
type LiveHandle interface {
	Kind() Kind
	// HardwareID returns the platform object ID. ok is false when the handle
	// type carries no ID comparable with enumeration IDs.
	HardwareID() (id HardwareID, ok bool)
	UniqueKey() string
	DisplayName() string
}
