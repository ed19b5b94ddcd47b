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
	"errors"
	"fmt"
	"strings"

	"github.com/carverauto/devicemap/pkg/devicemap"
	"github.com/carverauto/devicemap/pkg/logger"
)

// Audio backends understood by MalgoSource. The empty backend lets miniaudio
// pick the first one available on the host.
const (
	BackendALSA  = "alsa"
	BackendPulse = "pulseaudio"
	BackendJACK  = "jack"
)

var errUnknownBackend = errors.New("source: unknown audio backend")

type audioDevice struct {
	id        string
	name      string
	isDefault bool
}

type captureListFunc func(backend string, onLog func(string)) ([]audioDevice, error)

// ValidateAudioBackend reports whether backend names a supported audio backend.
func ValidateAudioBackend(backend string) error {
	switch backend {
	case "", BackendALSA, BackendPulse, BackendJACK:
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownBackend, backend)
	}
}

// MalgoSource enumerates audio capture devices through miniaudio. Hardware
// IDs are listing ordinals; the backend device ID is the unique key. Video
// enumeration returns no devices.
type MalgoSource struct {
	backend string
	logger  logger.Logger
	list    captureListFunc
}

var _ devicemap.Enumerator = (*MalgoSource)(nil)

// NewMalgoSource creates a MalgoSource for backend.
func NewMalgoSource(backend string, log logger.Logger) (*MalgoSource, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))

	if err := ValidateAudioBackend(backend); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.Nop()
	}

	return &MalgoSource{backend: backend, logger: log, list: malgoCaptureDevices}, nil
}

// Enumerate implements devicemap.Enumerator.
func (s *MalgoSource) Enumerate(ctx context.Context, kind devicemap.Kind) ([]devicemap.LiveHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if kind != devicemap.KindAudioInput {
		return nil, nil
	}

	devices, err := s.list(s.backend, func(msg string) {
		s.logger.Debug().Str("backend", s.backend).Msg(strings.TrimSpace(msg))
	})
	if err != nil {
		return nil, fmt.Errorf("audio capture listing: %w", err)
	}

	handles := make([]devicemap.LiveHandle, 0, len(devices))

	for i, d := range devices {
		name := d.name
		if name == "" {
			name = "Audio device " + d.id
		}

		if d.isDefault {
			s.logger.Debug().Str("name", name).Msg("Default capture device")
		}

		handles = append(handles, NewHandle(devicemap.KindAudioInput, devicemap.HardwareID(i), name, d.id))
	}

	s.logger.Debug().Str("backend", s.backend).Int("devices", len(handles)).Msg("Listed audio capture devices")

	return handles, nil
}
