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

// Package devicemap reconciles capture device identity between the platform
// capture framework (hardware object IDs), a downstream capture library that
// names duplicate devices with a suffix, and a host application that labels
// devices by their persistent unique key.
//
// A Table is a read-only snapshot built from one enumeration call. Build a new
// one after every hot-plug event; records from an old table must not be
// compared against handles from a newer enumeration.
package devicemap

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Kind is the device class a capture device belongs to.
type Kind int

const (
	KindUnspecified Kind = iota
	KindVideoInput
	KindAudioInput
)

func (k Kind) String() string {
	switch k {
	case KindVideoInput:
		return "video"
	case KindAudioInput:
		return "audio"
	case KindUnspecified:
		return "unspecified"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind maps "video" or "audio" (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video", "video_input", "videoinput":
		return KindVideoInput, nil
	case "audio", "audio_input", "audioinput":
		return KindAudioInput, nil
	default:
		return KindUnspecified, fmt.Errorf("%w: %q", errUnknownKind, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

// HardwareID is the platform object identifier of a device (an AudioObjectID
// on macOS, the listing ordinal for DirectShow). It is stable within a session
// but not across restarts.
type HardwareID uint32

func (id HardwareID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Descriptor is one raw device as reported by a platform enumeration call.
type Descriptor struct {
	Kind        Kind
	HardwareID  HardwareID
	DisplayName string
	UniqueKey   string
}

// Record is the reconciled identity of one device. Records are only produced
// by Build and are immutable.
type Record struct {
	kind           Kind
	hardwareID     HardwareID
	uniqueKey      string
	displayName    string
	downstreamName string
	hostLabel      string
	resolved       bool
}

func (r Record) Kind() Kind { return r.kind }

func (r Record) HardwareID() HardwareID { return r.hardwareID }

// UniqueKey is the persistent platform key, empty when the platform has none.
func (r Record) UniqueKey() string { return r.uniqueKey }

// DisplayName is the human-readable name. It is not unique within a table.
func (r Record) DisplayName() string { return r.displayName }

// DownstreamName is the name the downstream capture library uses to open the
// device: the display name, suffixed when another device shares it.
func (r Record) DownstreamName() string { return r.downstreamName }

// HostLabel is the label the host application shows for this device.
func (r Record) HostLabel() string { return r.hostLabel }

// Resolved reports whether the record came out of a table build. The zero
// Record returned by a missed lookup is not resolved.
func (r Record) Resolved() bool { return r.resolved }

// Descriptor returns the raw enumeration fields the record was built from.
func (r Record) Descriptor() Descriptor {
	return Descriptor{
		Kind:        r.kind,
		HardwareID:  r.hardwareID,
		DisplayName: r.displayName,
		UniqueKey:   r.uniqueKey,
	}
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (r Record) MarshalZerologObject(e *zerolog.Event) {
	e.Str("kind", r.kind.String()).
		Uint32("hardware_id", uint32(r.hardwareID)).
		Str("display_name", r.displayName).
		Str("downstream_name", r.downstreamName).
		Str("host_label", r.hostLabel)
}

type recordJSON struct {
	Kind           Kind       `json:"kind"`
	HardwareID     HardwareID `json:"hardware_id"`
	UniqueKey      string     `json:"unique_key,omitempty"`
	DisplayName    string     `json:"display_name"`
	DownstreamName string     `json:"downstream_name"`
	HostLabel      string     `json:"host_label"`
}

// MarshalJSON renders the record for CLI and log consumers. Records are not
// meant to be decoded back; rebuild a table instead.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Kind:           r.kind,
		HardwareID:     r.hardwareID,
		UniqueKey:      r.uniqueKey,
		DisplayName:    r.displayName,
		DownstreamName: r.downstreamName,
		HostLabel:      r.hostLabel,
	})
}
