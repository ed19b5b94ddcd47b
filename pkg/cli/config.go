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

// Package cli implements the devicemap command line: configuration, the list,
// lookup and resolve commands, and their terminal rendering.
package cli

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/carverauto/devicemap/pkg/config"
	"github.com/carverauto/devicemap/pkg/devicemap"
	"github.com/carverauto/devicemap/pkg/logger"
	"github.com/carverauto/devicemap/pkg/source"
	"github.com/carverauto/devicemap/pkg/telemetry"
)

// Device source types.
const (
	SourceFile    = "file"
	SourceCommand = "command"
	SourceFFmpeg  = "ffmpeg"
	SourceV4L2    = "v4l2"
	SourceMalgo   = "malgo"
	// SourceSystem reads video from video4linux and audio through miniaudio.
	SourceSystem = "system"
)

// Config is the devicemap configuration file.
type Config struct {
	Logging   *logger.Config    `json:"logging,omitempty" yaml:"logging,omitempty"`
	Source    SourceConfig      `json:"source" yaml:"source"`
	Naming    NamingConfig      `json:"naming" yaml:"naming"`
	HostLabel HostLabelConfig   `json:"host_label" yaml:"host_label"`
	Telemetry *telemetry.Config `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
}

// SourceConfig selects where device listings come from.
type SourceConfig struct {
	Type    string          `json:"type" yaml:"type"`
	Path    string          `json:"path,omitempty" yaml:"path,omitempty"`
	Command string          `json:"command,omitempty" yaml:"command,omitempty"`
	Args    []string        `json:"args,omitempty" yaml:"args,omitempty"`
	Timeout config.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	FFmpeg  string          `json:"ffmpeg,omitempty" yaml:"ffmpeg,omitempty"`
	Format  string          `json:"format,omitempty" yaml:"format,omitempty"`
	Root    string          `json:"root,omitempty" yaml:"root,omitempty"`
	Backend string          `json:"backend,omitempty" yaml:"backend,omitempty"`
}

// NamingConfig describes the downstream capture library's naming rule.
type NamingConfig struct {
	Convention     string `json:"convention" yaml:"convention"`
	RequireDevices bool   `json:"require_devices" yaml:"require_devices"`
}

// HostLabelConfig describes how the host application labels devices.
type HostLabelConfig struct {
	Format string `json:"format" yaml:"format"`
	Salt   string `json:"salt,omitempty" yaml:"salt,omitempty" sensitive:"true"`
}

// DefaultConfig returns the configuration used when no file is given: the
// platform's native capture listing, paren-ordinal names and raw labels.
func DefaultConfig() *Config {
	cfg := &Config{
		Logging: logger.DefaultConfig(),
		Naming:  NamingConfig{Convention: devicemap.ConventionParenOrdinal.String()},
		HostLabel: HostLabelConfig{
			Format: "raw",
		},
	}

	cfg.Source = SourceConfig{Type: SourceSystem}

	if format := DefaultFFmpegFormat(runtime.GOOS); format != "" {
		cfg.Source = SourceConfig{Type: SourceFFmpeg, Format: format}
	}

	return cfg
}

// DefaultFFmpegFormat returns the ffmpeg capture input that can list devices
// on goos, or "" when ffmpeg has none there.
func DefaultFFmpegFormat(goos string) string {
	switch goos {
	case "windows":
		return source.FormatDShow
	case "darwin":
		return source.FormatAVFoundation
	default:
		return ""
	}
}

// OverrideSource switches the source type and listing path from command line
// flags. Settings of the loaded source section are kept; an ffmpeg source
// without a format gets the platform's default one. Empty arguments change
// nothing.
func (c *Config) OverrideSource(sourceType, path string) {
	if sourceType != "" {
		c.Source.Type = strings.ToLower(sourceType)

		if c.Source.Type == SourceFFmpeg && c.Source.Format == "" {
			c.Source.Format = DefaultFFmpegFormat(runtime.GOOS)
		}
	}

	if path != "" {
		c.Source.Path = path
	}
}

// Validate implements config.Validator.
func (c *Config) Validate() error {
	if _, err := c.BuildOptions(); err != nil {
		return err
	}

	switch strings.ToLower(c.Source.Type) {
	case SourceFile:
		if c.Source.Path == "" {
			return errSourceNeedsPath
		}
	case SourceCommand:
		if c.Source.Command == "" {
			return errSourceNeedsCmd
		}
	case SourceFFmpeg:
		if c.Source.Format != source.FormatDShow && c.Source.Format != source.FormatAVFoundation {
			return fmt.Errorf("ffmpeg source: unsupported format %q", c.Source.Format)
		}
	case SourceV4L2:
	case SourceMalgo, SourceSystem:
		if err := source.ValidateAudioBackend(c.Source.Backend); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownSource, c.Source.Type)
	}

	return c.Telemetry.Validate()
}

// BuildOptions translates the naming and host label sections.
func (c *Config) BuildOptions() ([]devicemap.BuildOption, error) {
	convention, err := devicemap.ParseConvention(c.Naming.Convention)
	if err != nil {
		return nil, err
	}

	labeler, err := devicemap.ParseHostLabeler(c.HostLabel.Format, c.HostLabel.Salt)
	if err != nil {
		return nil, err
	}

	opts := []devicemap.BuildOption{
		devicemap.WithConvention(convention),
		devicemap.WithHostLabeler(labeler),
	}

	if c.Naming.RequireDevices {
		opts = append(opts, devicemap.RequireDevices())
	}

	return opts, nil
}

// Enumerator creates the configured device source.
func (c *Config) Enumerator(log logger.Logger) (devicemap.Enumerator, error) {
	timeout := time.Duration(c.Source.Timeout)

	switch strings.ToLower(c.Source.Type) {
	case SourceFile:
		return source.NewFileSource(c.Source.Path, log), nil
	case SourceCommand:
		return source.NewCommandSource(c.Source.Command, c.Source.Args, timeout, log), nil
	case SourceFFmpeg:
		return source.NewFFmpegSource(c.Source.FFmpeg, c.Source.Format, timeout, log)
	case SourceV4L2:
		return source.NewV4L2Source(c.Source.Root, log), nil
	case SourceMalgo:
		return source.NewMalgoSource(c.Source.Backend, log)
	case SourceSystem:
		audio, err := source.NewMalgoSource(c.Source.Backend, log)
		if err != nil {
			return nil, err
		}

		return source.NewKindRouter(source.NewV4L2Source(c.Source.Root, log), audio), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownSource, c.Source.Type)
	}
}
