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

	"github.com/carverauto/devicemap/pkg/devicemap"
)

// KindRouter enumerates each device class from its own source. A class with
// no source has no devices.
type KindRouter struct {
	sources map[devicemap.Kind]devicemap.Enumerator
}

var _ devicemap.Enumerator = (*KindRouter)(nil)

// NewKindRouter routes video enumeration to video and audio enumeration to
// audio. Either may be nil.
func NewKindRouter(video, audio devicemap.Enumerator) *KindRouter {
	r := &KindRouter{sources: make(map[devicemap.Kind]devicemap.Enumerator, 2)}

	if video != nil {
		r.sources[devicemap.KindVideoInput] = video
	}

	if audio != nil {
		r.sources[devicemap.KindAudioInput] = audio
	}

	return r
}

// Enumerate implements devicemap.Enumerator.
func (r *KindRouter) Enumerate(ctx context.Context, kind devicemap.Kind) ([]devicemap.LiveHandle, error) {
	src, ok := r.sources[kind]
	if !ok {
		return nil, ctx.Err()
	}

	return src.Enumerate(ctx, kind)
}
