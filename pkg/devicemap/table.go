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
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/devicemap/pkg/logger"
)

const (
	schemeDownstream = "downstream_name"
	schemeHostLabel  = "host_label"
	schemeHardware   = "hardware_id"
)

// Table is the reconciliation snapshot of one enumeration. It is never
// mutated after Build returns, so concurrent readers need no locking.
type Table struct {
	snapshotID uuid.UUID
	builtAt    time.Time
	kind       Kind
	records    []Record

	byDownstream map[string]int
	byHostLabel  map[string]int
	byHardwareID map[HardwareID]int

	logger logger.Logger
}

type buildOptions struct {
	convention     Convention
	labeler        HostLabeler
	requireDevices bool
	logger         logger.Logger
}

// BuildOption customises Build.
type BuildOption func(*buildOptions)

// WithConvention selects the downstream library's duplicate-name rule.
func WithConvention(c Convention) BuildOption {
	return func(o *buildOptions) {
		o.convention = c
	}
}

// WithHostLabeler selects the host application's label format.
func WithHostLabeler(l HostLabeler) BuildOption {
	return func(o *buildOptions) {
		if l != nil {
			o.labeler = l
		}
	}
}

// RequireDevices makes an empty enumeration fail with ErrEmptyEnumeration.
func RequireDevices() BuildOption {
	return func(o *buildOptions) {
		o.requireDevices = true
	}
}

// WithLogger sets the logger used by the table and its build.
func WithLogger(l logger.Logger) BuildOption {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Build reconciles one enumeration snapshot into a Table. Descriptors keep
// their enumeration order; duplicate display names are suffixed per the
// configured Convention in that order.
//
// An empty snapshot yields an empty table unless RequireDevices is set.
// Duplicate hardware IDs, duplicate host labels, mixed device classes and
// empty display names fail with ErrInconsistentEnumeration.
func Build(descriptors []Descriptor, opts ...BuildOption) (*Table, error) {
	o := buildOptions{
		convention: ConventionParenOrdinal,
		labeler:    LabelRaw,
		logger:     logger.Nop(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()

	table, err := build(descriptors, &o)

	recordBuild(context.Background(), time.Since(start), err)

	if err != nil {
		o.logger.Debug().Err(err).Int("descriptors", len(descriptors)).Msg("Device table build failed")

		return nil, err
	}

	o.logger.Debug().
		Str("snapshot_id", table.snapshotID.String()).
		Str("kind", table.kind.String()).
		Int("devices", len(table.records)).
		Msg("Device table built")

	return table, nil
}

func build(descriptors []Descriptor, o *buildOptions) (*Table, error) {
	if len(descriptors) == 0 && o.requireDevices {
		return nil, ErrEmptyEnumeration
	}

	if err := validateDescriptors(descriptors); err != nil {
		return nil, err
	}

	names := disambiguate(descriptors, o.convention, o.logger)

	t := &Table{
		snapshotID:   uuid.New(),
		builtAt:      time.Now().UTC(),
		records:      make([]Record, 0, len(descriptors)),
		byDownstream: make(map[string]int, len(descriptors)),
		byHostLabel:  make(map[string]int, len(descriptors)),
		byHardwareID: make(map[HardwareID]int, len(descriptors)),
		logger:       o.logger,
	}

	if len(descriptors) > 0 {
		t.kind = descriptors[0].Kind
	}

	for i, d := range descriptors {
		label := o.labeler.HostLabel(d.UniqueKey, d.HardwareID)

		if prev, dup := t.byHostLabel[label]; dup {
			return nil, fmt.Errorf("%w: devices %s and %s share host label %q",
				ErrInconsistentEnumeration, descriptors[prev].HardwareID, d.HardwareID, label)
		}

		t.records = append(t.records, Record{
			kind:           d.Kind,
			hardwareID:     d.HardwareID,
			uniqueKey:      d.UniqueKey,
			displayName:    d.DisplayName,
			downstreamName: names[i],
			hostLabel:      label,
			resolved:       true,
		})

		t.byDownstream[names[i]] = i
		t.byHostLabel[label] = i
		t.byHardwareID[d.HardwareID] = i
	}

	return t, nil
}

func validateDescriptors(descriptors []Descriptor) error {
	seen := make(map[HardwareID]struct{}, len(descriptors))

	for i, d := range descriptors {
		if d.DisplayName == "" {
			return fmt.Errorf("%w: device %s has no display name", ErrInconsistentEnumeration, d.HardwareID)
		}

		if d.Kind != descriptors[0].Kind {
			return fmt.Errorf("%w: device %s is %s, snapshot is %s",
				ErrInconsistentEnumeration, d.HardwareID, d.Kind, descriptors[0].Kind)
		}

		if _, dup := seen[d.HardwareID]; dup {
			return fmt.Errorf("%w: hardware id %s reported twice (index %d)",
				ErrInconsistentEnumeration, d.HardwareID, i)
		}

		seen[d.HardwareID] = struct{}{}
	}

	return nil
}

// disambiguate returns the downstream name of every descriptor, index-aligned.
// A generated name that collides with a real display name (a device literally
// called "Mic (2)") skips to the next free ordinal.
func disambiguate(descriptors []Descriptor, c Convention, log logger.Logger) []string {
	counts := make(map[string]int, len(descriptors))
	taken := make(map[string]struct{}, len(descriptors))

	for _, d := range descriptors {
		counts[d.DisplayName]++
		taken[d.DisplayName] = struct{}{}
	}

	names := make([]string, len(descriptors))
	position := make(map[string]int)
	next := make(map[string]int)

	for i, d := range descriptors {
		display := d.DisplayName
		position[display]++

		if counts[display] == 1 || (position[display] == 1 && c.keepsFirst()) {
			names[i] = display

			continue
		}

		ordinal, ok := next[display]
		if !ok {
			ordinal = c.firstOrdinal()
		}

		name := c.Suffixed(display, ordinal)
		for {
			if _, clash := taken[name]; !clash {
				break
			}

			log.Warn().
				Str("display_name", display).
				Str("candidate", name).
				Msg("Suffixed device name collides with another device, skipping ordinal")

			ordinal++
			name = c.Suffixed(display, ordinal)
		}

		taken[name] = struct{}{}
		next[display] = ordinal + 1
		names[i] = name
	}

	return names
}

// LookupByDownstreamName finds the device the downstream capture library
// knows as name. The match is exact.
func (t *Table) LookupByDownstreamName(name string) (Record, bool) {
	if t == nil {
		return Record{}, false
	}

	return t.lookup(schemeDownstream, name, t.byDownstream)
}

// LookupByHostLabel finds the device the host application labels label.
func (t *Table) LookupByHostLabel(label string) (Record, bool) {
	if t == nil {
		return Record{}, false
	}

	return t.lookup(schemeHostLabel, label, t.byHostLabel)
}

// LookupByHardwareID finds the device with the given platform object ID.
func (t *Table) LookupByHardwareID(id HardwareID) (Record, bool) {
	if t == nil {
		return Record{}, false
	}

	i, ok := t.byHardwareID[id]

	recordLookup(context.Background(), schemeHardware, ok)

	if !ok {
		return Record{}, false
	}

	return t.records[i], true
}

func (t *Table) lookup(scheme, key string, index map[string]int) (Record, bool) {
	i, ok := index[key]

	recordLookup(context.Background(), scheme, ok)

	if !ok {
		log := t.logger
		if log == nil {
			log = logger.Nop()
		}

		log.Debug().
			Str("snapshot_id", t.snapshotID.String()).
			Str("scheme", scheme).
			Str("key", key).
			Msg("Device lookup missed")

		return Record{}, false
	}

	return t.records[i], true
}

// Records returns a copy of the records in enumeration order.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}

	out := make([]Record, len(t.records))
	copy(out, t.records)

	return out
}

// Len returns the number of devices in the snapshot.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.records)
}

// Kind returns the device class of the snapshot; KindUnspecified when empty.
func (t *Table) Kind() Kind { return t.kind }

// SnapshotID identifies the enumeration the table was built from in logs and
// traces.
func (t *Table) SnapshotID() uuid.UUID { return t.snapshotID }

// BuiltAt is the UTC time the table was built.
func (t *Table) BuiltAt() time.Time { return t.builtAt }
