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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// hardwareIDLabelPrefix marks labels derived from a hardware ID because the
// device has no persistent key.
const hardwareIDLabelPrefix = "hwid:"

// HostLabeler derives the label the host application uses for a device. The
// result must depend only on its arguments.
type HostLabeler interface {
	HostLabel(uniqueKey string, id HardwareID) string
}

// HostLabelFunc adapts a function to HostLabeler.
type HostLabelFunc func(uniqueKey string, id HardwareID) string

// HostLabel implements HostLabeler.
func (f HostLabelFunc) HostLabel(uniqueKey string, id HardwareID) string {
	return f(uniqueKey, id)
}

// RawIdentifier is the identifier a host label is derived from: the unique
// key when present, otherwise "hwid:<id>".
func RawIdentifier(uniqueKey string, id HardwareID) string {
	if key := strings.TrimSpace(uniqueKey); key != "" {
		return key
	}

	return hardwareIDLabelPrefix + id.String()
}

// LabelRaw exposes the raw identifier unchanged. Keys and the "hwid:<id>"
// fallback share one namespace: a device whose platform key is literally
// "hwid:7" next to a keyless device with hardware ID 7 yields duplicate labels,
// and Build rejects the snapshot with ErrInconsistentEnumeration. LabelHMAC
// hashes the same identifier and has the same property.
//
//nolint:gochecknoglobals // stateless labeler shared by default
var LabelRaw HostLabeler = HostLabelFunc(RawIdentifier)

// LabelHMAC returns a labeler that hex-encodes HMAC-SHA256(salt, raw identifier),
// matching hosts that hash device IDs with a per-installation salt before
// exposing them.
func LabelHMAC(salt []byte) HostLabeler {
	key := append([]byte(nil), salt...)

	return HostLabelFunc(func(uniqueKey string, id HardwareID) string {
		mac := hmac.New(sha256.New, key)
		mac.Write([]byte(RawIdentifier(uniqueKey, id)))

		return hex.EncodeToString(mac.Sum(nil))
	})
}

// ParseHostLabeler maps a configuration value ("raw" or "hmac") to a labeler.
func ParseHostLabeler(format, salt string) (HostLabeler, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "raw":
		return LabelRaw, nil
	case "hmac":
		if salt == "" {
			return nil, fmt.Errorf("%w: hmac labels need a salt", errUnknownLabel)
		}

		return LabelHMAC([]byte(salt)), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownLabel, format)
	}
}
