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

// Package source provides devicemap.Enumerator implementations: a JSON/YAML
// fixture file, a native helper command printing JSON, ffmpeg's device
// listing and the Linux video4linux sysfs tree.
package source

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/carverauto/devicemap/pkg/devicemap"
)

// ErrInvalidListing is returned when a device listing cannot be decoded or
// names a device without a class or display name.
var ErrInvalidListing = errors.New("source: invalid device listing")

// Entry is one device in a JSON or YAML listing. An entry without an id
// yields a handle that exposes no hardware ID.
type Entry struct {
	Kind devicemap.Kind        `json:"kind" yaml:"kind"`
	ID   *devicemap.HardwareID `json:"id,omitempty" yaml:"id,omitempty"`
	Name string                `json:"name" yaml:"name"`
	Key  string                `json:"key,omitempty" yaml:"key,omitempty"`
}

// Handle is the live handle produced by every source in this package.
type Handle struct {
	kind  devicemap.Kind
	id    devicemap.HardwareID
	hasID bool
	key   string
	name  string
}

var _ devicemap.LiveHandle = Handle{}

// NewHandle creates a handle that exposes a hardware ID.
func NewHandle(kind devicemap.Kind, id devicemap.HardwareID, name, key string) Handle {
	return Handle{kind: kind, id: id, hasID: true, key: key, name: name}
}

func (h Handle) Kind() devicemap.Kind { return h.kind }

func (h Handle) HardwareID() (devicemap.HardwareID, bool) { return h.id, h.hasID }

func (h Handle) UniqueKey() string { return h.key }

func (h Handle) DisplayName() string { return h.name }

// Handle converts the entry to a live handle.
func (e Entry) Handle() Handle {
	h := Handle{kind: e.Kind, key: e.Key, name: e.Name}
	if e.ID != nil {
		h.id, h.hasID = *e.ID, true
	}

	return h
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

func decodeEntries(data []byte, f format) ([]Entry, error) {
	var entries []Entry

	var err error

	switch f {
	case formatYAML:
		err = yaml.Unmarshal(data, &entries)
	default:
		err = json.Unmarshal(data, &entries)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidListing, err)
	}

	for i, e := range entries {
		if e.Kind == devicemap.KindUnspecified {
			return nil, fmt.Errorf("%w: entry %d (%q) has no kind", ErrInvalidListing, i, e.Name)
		}

		if e.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidListing, i)
		}
	}

	return entries, nil
}

// handlesOf keeps the entries of one class, in listing order.
func handlesOf(entries []Entry, kind devicemap.Kind) []devicemap.LiveHandle {
	out := make([]devicemap.LiveHandle, 0, len(entries))

	for _, e := range entries {
		if e.Kind == kind {
			out = append(out, e.Handle())
		}
	}

	return out
}
