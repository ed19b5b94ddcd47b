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

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/carverauto/devicemap/pkg/config"
	"github.com/carverauto/devicemap/pkg/devicemap"
	"github.com/carverauto/devicemap/pkg/logger"
)

// App runs devicemap commands against one configured device source.
type App struct {
	resolver *devicemap.Resolver
	render   *Renderer
	out      io.Writer
	logger   logger.Logger
}

// NewApp wires the configured source and naming rules. Output goes to out;
// styled selects terminal rendering.
func NewApp(cfg *Config, out io.Writer, styled bool, log logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}

	enumerator, err := cfg.Enumerator(log)
	if err != nil {
		return nil, err
	}

	return newApp(cfg, enumerator, out, styled, log)
}

func newApp(cfg *Config, enumerator devicemap.Enumerator, out io.Writer, styled bool, log logger.Logger) (*App, error) {
	opts, err := cfg.BuildOptions()
	if err != nil {
		return nil, err
	}

	return &App{
		resolver: devicemap.NewResolver(enumerator, log, opts...),
		render:   NewRenderer(out, styled),
		out:      out,
		logger:   log,
	}, nil
}

// List enumerates kind and prints the reconciliation table.
func (a *App) List(ctx context.Context, kind devicemap.Kind, asJSON bool) error {
	table, err := a.resolver.Snapshot(ctx, kind)
	if err != nil {
		return err
	}

	if asJSON {
		return a.render.TableJSON(kind, table)
	}

	return a.render.Table(kind, table)
}

// Lookup prints the device known downstream as name, or labelled label by
// the host application. Exactly one of the two must be set.
func (a *App) Lookup(ctx context.Context, kind devicemap.Kind, name, label string, asJSON bool) error {
	if (name == "") == (label == "") {
		return errLookupKeyRequired
	}

	table, err := a.resolver.Snapshot(ctx, kind)
	if err != nil {
		return err
	}

	var (
		record devicemap.Record
		ok     bool
		what   string
	)

	if name != "" {
		record, ok = table.LookupByDownstreamName(name)
		what = fmt.Sprintf("named %q", name)
	} else {
		record, ok = table.LookupByHostLabel(label)
		what = fmt.Sprintf("labelled %q", label)
	}

	if !ok {
		return fmt.Errorf("%w: no %s device %s", devicemap.ErrNotFound, kind, what)
	}

	a.logger.Debug().Object("device", record).Msg("Lookup matched")

	if asJSON {
		return a.render.JSON(record)
	}

	return a.render.Record(record)
}

// Resolve prints the downstream name to open for a host label, alone on one
// line so scripts can capture it.
func (a *App) Resolve(ctx context.Context, kind devicemap.Kind, label string) error {
	name, err := a.resolver.ResolveDownstreamName(ctx, kind, label)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.out, name)

	return err
}

// ShowConfig prints cfg with secrets redacted.
func ShowConfig(out io.Writer, cfg *Config) error {
	data, err := config.SanitizeForDisplay(cfg)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(data))

	return err
}
