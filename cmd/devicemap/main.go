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

// Package main is the devicemap command: it lists capture devices with the
// names a downstream capture library and a host application use for them, and
// translates between those names.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/paularlott/cli"
	"github.com/paularlott/cli/env"
	"golang.org/x/term"

	devcli "github.com/carverauto/devicemap/pkg/cli"
	"github.com/carverauto/devicemap/pkg/config"
	"github.com/carverauto/devicemap/pkg/devicemap"
	"github.com/carverauto/devicemap/pkg/logger"
	"github.com/carverauto/devicemap/pkg/telemetry"
	"github.com/carverauto/devicemap/pkg/version"
)

const (
	exitError    = 1
	exitNotFound = 2

	shutdownTimeout = 5 * time.Second
)

// globals carries the root flags into the subcommands.
type globals struct {
	configPath string
	logLevel   string
	sourceType string
	sourcePath string
	kind       string
	noColor    bool
}

func main() {
	env.Load()

	g := &globals{}

	rootCmd := &cli.Command{
		Name:        "devicemap",
		Version:     version.GetFullVersion(),
		Usage:       "Reconcile capture device names across platform, capture library and host application",
		Description: "Enumerates audio or video capture devices and maps between hardware IDs, disambiguated capture library names and host application labels",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a JSON or YAML config file",
				EnvVars: []string{"DEVICEMAP_CONFIG"},
				Global:  true,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (trace, debug, info, warn, error)",
				EnvVars: []string{"DEVICEMAP_LOG_LEVEL"},
				Global:  true,
			},
			&cli.StringFlag{
				Name:    "source",
				Usage:   "Device source (file, command, ffmpeg, v4l2, malgo, system); overrides the config file",
				EnvVars: []string{"DEVICEMAP_SOURCE"},
				Global:  true,
			},
			&cli.StringFlag{
				Name:   "path",
				Usage:  "Listing file for the file source",
				Global: true,
			},
			&cli.StringFlag{
				Name:         "kind",
				Aliases:      []string{"k"},
				Usage:        "Device class to enumerate (audio, video)",
				DefaultValue: "audio",
				EnvVars:      []string{"DEVICEMAP_KIND"},
				Global:       true,
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable styled output",
				EnvVars: []string{"NO_COLOR"},
				Global:  true,
			},
		},
		PreRun: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			g.configPath = cmd.GetString("config")
			g.logLevel = cmd.GetString("log-level")
			g.sourceType = cmd.GetString("source")
			g.sourcePath = cmd.GetString("path")
			g.kind = cmd.GetString("kind")
			g.noColor = cmd.GetBool("no-color")

			return ctx, nil
		},
		Commands: []*cli.Command{
			listCommand(g),
			lookupCommand(g),
			resolveCommand(g),
			configCommand(g),
		},
	}

	if err := rootCmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if errors.Is(err, devicemap.ErrNotFound) {
			os.Exit(exitNotFound)
		}

		os.Exit(exitError)
	}
}

func listCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:        "list",
		Usage:       "List devices of one class",
		Description: "Enumerate devices and print every name each party uses for them",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			return g.run(ctx, func(ctx context.Context, app *devcli.App, kind devicemap.Kind) error {
				return app.List(ctx, kind, cmd.GetBool("json"))
			})
		},
	}
}

func lookupCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:        "lookup",
		Usage:       "Find one device by capture library name or host label",
		Description: "Look a device up by exactly one of --name or --label",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Capture library device name, e.g. \"Mic (2)\""},
			&cli.StringFlag{Name: "label", Usage: "Host application label"},
			&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			return g.run(ctx, func(ctx context.Context, app *devcli.App, kind devicemap.Kind) error {
				return app.Lookup(ctx, kind, cmd.GetString("name"), cmd.GetString("label"), cmd.GetBool("json"))
			})
		},
	}
}

func resolveCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:        "resolve",
		Usage:       "Print the capture library name for a host label",
		Description: "Resolve a host application label to the name to open with the capture library",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "label", Usage: "Host application label", Required: true},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			return g.run(ctx, func(ctx context.Context, app *devcli.App, kind devicemap.Kind) error {
				return app.Resolve(ctx, kind, cmd.GetString("label"))
			})
		},
	}
}

func configCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:        "config",
		Usage:       "Print the effective configuration",
		Description: "Print the merged configuration with secrets redacted",
		Run: func(ctx context.Context, _ *cli.Command) error {
			cfg, err := g.loadConfig(ctx)
			if err != nil {
				return err
			}

			return devcli.ShowConfig(os.Stdout, cfg)
		},
	}
}

func (g *globals) loadConfig(ctx context.Context) (*devcli.Config, error) {
	cfg := devcli.DefaultConfig()

	if err := config.NewConfig(nil).LoadAndValidate(ctx, g.configPath, cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cfg.Logging == nil {
		cfg.Logging = logger.DefaultConfig()
	}

	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}

	if g.sourceType == "" && g.sourcePath == "" {
		return cfg, nil
	}

	cfg.OverrideSource(g.sourceType, g.sourcePath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	return cfg, nil
}

// run loads configuration, starts logging and telemetry, and hands a ready App
// to fn. Providers are flushed before it returns.
func (g *globals) run(ctx context.Context, fn func(context.Context, *devcli.App, devicemap.Kind) error) error {
	kind, err := devicemap.ParseKind(g.kind)
	if err != nil {
		return err
	}

	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, version.GetVersion(), logger.Component("telemetry"))
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	if w := providers.LogWriter(); w != nil {
		if err := logger.InitWithWriters(cfg.Logging, w); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	log := logger.Component("devicemap")

	app, err := devcli.NewApp(cfg, os.Stdout, g.styled(), log)
	if err != nil {
		return err
	}

	return fn(ctx, app, kind)
}

func (g *globals) styled() bool {
	return !g.noColor && term.IsTerminal(int(os.Stdout.Fd()))
}
