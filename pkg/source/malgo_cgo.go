//go:build cgo

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
	"fmt"

	"github.com/gen2brain/malgo"
)

func malgoCaptureDevices(backend string, onLog func(string)) ([]audioDevice, error) {
	var backends []malgo.Backend

	switch backend {
	case BackendALSA:
		backends = []malgo.Backend{malgo.BackendAlsa}
	case BackendPulse:
		backends = []malgo.Backend{malgo.BackendPulseaudio}
	case BackendJACK:
		backends = []malgo.Backend{malgo.BackendJack}
	}

	ctx, err := malgo.InitContext(backends, malgo.ContextConfig{}, onLog)
	if err != nil {
		return nil, fmt.Errorf("initializing audio context: %w", err)
	}

	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("listing capture devices: %w", err)
	}

	devices := make([]audioDevice, 0, len(infos))

	for _, info := range infos {
		devices = append(devices, audioDevice{
			id:        info.ID.String(),
			name:      info.Name(),
			isDefault: info.IsDefault != 0,
		})
	}

	return devices, nil
}
