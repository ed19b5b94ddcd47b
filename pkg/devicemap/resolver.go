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
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/devicemap/pkg/logger"
)

const tracerName = "github.com/carverauto/devicemap/pkg/devicemap"

// Resolver builds fresh tables from a platform Enumerator and answers the
// lookups that need a live handle. It holds no device state between calls.
type Resolver struct {
	enumerator Enumerator
	logger     logger.Logger
	opts       []BuildOption

	// the platform enumeration call is treated as non-reentrant
	mu sync.Mutex
}

// NewResolver creates a Resolver. opts are applied to every Build.
func NewResolver(enumerator Enumerator, log logger.Logger, opts ...BuildOption) *Resolver {
	if log == nil {
		log = logger.Nop()
	}

	return &Resolver{
		enumerator: enumerator,
		logger:     log,
		opts:       append([]BuildOption(nil), opts...),
	}
}

// Snapshot enumerates kind once and builds a table from the result.
func (r *Resolver) Snapshot(ctx context.Context, kind Kind) (*Table, error) {
	table, _, err := r.snapshot(ctx, kind)

	return table, err
}

// ResolveHostLabel maps a host application label to the platform's live handle
// for that device, using one fresh enumeration. The returned handle is owned
// by the platform; the Resolver keeps no reference to it. A label that matches
// no current device yields ErrNotFound.
func (r *Resolver) ResolveHostLabel(ctx context.Context, kind Kind, label string) (LiveHandle, error) {
	table, handles, err := r.snapshot(ctx, kind)
	if err != nil {
		return nil, err
	}

	record, ok := table.LookupByHostLabel(label)
	if !ok {
		return nil, fmt.Errorf("%w: no %s device labelled %q", ErrNotFound, kind, label)
	}

	for _, h := range handles {
		if MatchesLiveHandle(record, h) {
			return h, nil
		}
	}

	return nil, fmt.Errorf("%w: %s device %q vanished from its own snapshot", ErrNotFound, kind, label)
}

// ResolveDownstreamName maps a host application label to the name the
// downstream capture library should be asked to open.
func (r *Resolver) ResolveDownstreamName(ctx context.Context, kind Kind, label string) (string, error) {
	table, err := r.Snapshot(ctx, kind)
	if err != nil {
		return "", err
	}

	record, ok := table.LookupByHostLabel(label)
	if !ok {
		return "", fmt.Errorf("%w: no %s device labelled %q", ErrNotFound, kind, label)
	}

	return record.DownstreamName(), nil
}

func (r *Resolver) snapshot(ctx context.Context, kind Kind) (*Table, []LiveHandle, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "devicemap.Resolver/Snapshot",
		trace.WithAttributes(attribute.String("devicemap.kind", kind.String())))
	defer span.End()

	handles, err := r.enumerate(ctx, kind)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enumeration failed")

		return nil, nil, fmt.Errorf("enumerating %s devices: %w", kind, err)
	}

	descriptors := make([]Descriptor, 0, len(handles))

	for _, h := range handles {
		d, err := DescriptorOf(h)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "bad device handle")

			return nil, nil, err
		}

		if d.Kind != kind {
			err = fmt.Errorf("%w: asked for %s devices, platform returned %s device %s",
				ErrInconsistentEnumeration, kind, d.Kind, d.HardwareID)
			span.RecordError(err)
			span.SetStatus(codes.Error, "wrong device class")

			return nil, nil, err
		}

		descriptors = append(descriptors, d)
	}

	opts := make([]BuildOption, 0, len(r.opts)+1)
	opts = append(opts, WithLogger(r.logger))
	opts = append(opts, r.opts...)

	table, err := Build(descriptors, opts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")

		return nil, nil, err
	}

	span.SetAttributes(
		attribute.String("devicemap.snapshot_id", table.SnapshotID().String()),
		attribute.Int("devicemap.devices", table.Len()),
	)

	return table, handles, nil
}

func (r *Resolver) enumerate(ctx context.Context, kind Kind) ([]LiveHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.enumerator.Enumerate(ctx, kind)
}
