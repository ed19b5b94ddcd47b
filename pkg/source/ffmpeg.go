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
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/devicemap/pkg/devicemap"
	"github.com/carverauto/devicemap/pkg/logger"
)

// Capture backends understood by FFmpegSource.
const (
	FormatDShow        = "dshow"
	FormatAVFoundation = "avfoundation"
)

var (
	errUnknownFormat = errors.New("source: unknown ffmpeg input format")
	errNoListing     = errors.New("source: ffmpeg printed no device listing")
)

//nolint:gochecknoglobals // compiled once
var (
	dshowLine    = regexp.MustCompile(`^\[dshow @ [^\]]+\]\s?(.*)$`)
	dshowHeader  = regexp.MustCompile(`^DirectShow (video|audio) devices`)
	dshowTyped   = regexp.MustCompile(`^"(.+)" \(([a-z, ]+)\)$`)
	dshowBare    = regexp.MustCompile(`^\s*"(.+)"$`)
	dshowAltName = regexp.MustCompile(`^\s*Alternative name "(.+)"$`)
	avfLine      = regexp.MustCompile(`^\[AVFoundation [^\]]+\]\s?(.*)$`)
	avfHeader    = regexp.MustCompile(`^AVFoundation (video|audio) devices:`)
	avfDevice    = regexp.MustCompile(`^\[(\d+)\] (.+)$`)
)

const (
	noDShowDevices  = "Could not enumerate"
	dshowNoneDevice = "none"
)

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// FFmpegSource enumerates capture devices by running ffmpeg's -list_devices
// for a DirectShow or AVFoundation input and parsing its log output.
type FFmpegSource struct {
	binary  string
	format  string
	timeout time.Duration
	logger  logger.Logger
	run     runFunc
}

var _ devicemap.Enumerator = (*FFmpegSource)(nil)

// NewFFmpegSource creates an FFmpegSource. binary defaults to "ffmpeg".
func NewFFmpegSource(binary, format string, timeout time.Duration, log logger.Logger) (*FFmpegSource, error) {
	if format != FormatDShow && format != FormatAVFoundation {
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
	}

	if binary == "" {
		binary = "ffmpeg"
	}

	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	if log == nil {
		log = logger.Nop()
	}

	return &FFmpegSource{
		binary:  binary,
		format:  format,
		timeout: timeout,
		logger:  log,
		run:     combinedOutput,
	}, nil
}

func combinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Enumerate implements devicemap.Enumerator.
func (s *FFmpegSource) Enumerate(ctx context.Context, kind devicemap.Kind) ([]devicemap.LiveHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	input := "dummy"
	if s.format == FormatAVFoundation {
		input = ""
	}

	// ffmpeg exits non-zero after listing devices; only the output matters
	out, runErr := s.run(ctx, s.binary, "-hide_banner", "-f", s.format, "-list_devices", "true", "-i", input)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("ffmpeg device listing: %w", ctxErr)
	}

	var (
		entries []Entry
		err     error
	)

	if s.format == FormatDShow {
		entries, err = ParseDShowListing(out)
	} else {
		entries, err = ParseAVFoundationListing(out)
	}

	if err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("ffmpeg device listing: %w (ffmpeg: %w)", err, runErr)
		}

		return nil, fmt.Errorf("ffmpeg device listing: %w", err)
	}

	handles := handlesOf(entries, kind)

	s.logger.Debug().
		Str("format", s.format).
		Str("kind", kind.String()).
		Int("devices", len(handles)).
		Msg("Parsed ffmpeg device listing")

	return handles, nil
}

// ParseDShowListing parses `ffmpeg -f dshow -list_devices true` output. Both
// the sectioned layout of older builds and the per-line "(video)" tags of newer
// ones are accepted. Hardware IDs are per-class listing ordinals; the
// "Alternative name" moniker becomes the unique key. A device that is both
// video and audio is listed once per class.
func ParseDShowListing(out []byte) ([]Entry, error) {
	var (
		entries []Entry
		section devicemap.Kind
		last    []int
		seen    bool
	)

	next := map[devicemap.Kind]devicemap.HardwareID{}

	add := func(kind devicemap.Kind, name string) {
		id := next[kind]
		next[kind]++

		entries = append(entries, Entry{Kind: kind, ID: &id, Name: name})
		last = append(last, len(entries)-1)
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := dshowLine.FindStringSubmatch(strings.TrimRight(scanner.Text(), "\r"))
		if m == nil {
			continue
		}

		body := m[1]

		switch {
		case dshowHeader.MatchString(body):
			seen = true
			section = kindOf(dshowHeader.FindStringSubmatch(body)[1])
		case dshowAltName.MatchString(body):
			key := dshowAltName.FindStringSubmatch(body)[1]
			for _, i := range last {
				entries[i].Key = key
			}
		case dshowTyped.MatchString(body):
			seen = true
			dm := dshowTyped.FindStringSubmatch(body)
			last = last[:0]

			for _, t := range strings.Split(dm[2], ",") {
				t = strings.TrimSpace(t)
				if t == dshowNoneDevice {
					continue
				}

				if k := kindOf(t); k != devicemap.KindUnspecified {
					add(k, dm[1])
				}
			}
		case dshowBare.MatchString(body) && section != devicemap.KindUnspecified:
			last = last[:0]
			add(section, dshowBare.FindStringSubmatch(body)[1])
		case strings.Contains(body, noDShowDevices):
			seen = true
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidListing, err)
	}

	if !seen {
		return nil, errNoListing
	}

	return entries, nil
}

// ParseAVFoundationListing parses `ffmpeg -f avfoundation -list_devices true`
// output. The bracketed index is the hardware ID; AVFoundation prints no
// persistent key.
func ParseAVFoundationListing(out []byte) ([]Entry, error) {
	var (
		entries []Entry
		section devicemap.Kind
		seen    bool
	)

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := avfLine.FindStringSubmatch(strings.TrimRight(scanner.Text(), "\r"))
		if m == nil {
			continue
		}

		body := m[1]

		if h := avfHeader.FindStringSubmatch(body); h != nil {
			seen = true
			section = kindOf(h[1])

			continue
		}

		d := avfDevice.FindStringSubmatch(body)
		if d == nil || section == devicemap.KindUnspecified {
			continue
		}

		n, err := strconv.ParseUint(d[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: device index %q: %w", ErrInvalidListing, d[1], err)
		}

		id := devicemap.HardwareID(n)
		entries = append(entries, Entry{Kind: section, ID: &id, Name: strings.TrimSpace(d[2])})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidListing, err)
	}

	if !seen {
		return nil, errNoListing
	}

	return entries, nil
}

func kindOf(class string) devicemap.Kind {
	switch class {
	case "video":
		return devicemap.KindVideoInput
	case "audio":
		return devicemap.KindAudioInput
	default:
		return devicemap.KindUnspecified
	}
}
