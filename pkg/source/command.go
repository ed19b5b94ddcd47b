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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/carverauto/devicemap/pkg/devicemap"
	"github.com/carverauto/devicemap/pkg/logger"
)

// DefaultCommandTimeout bounds a helper invocation when no timeout is set.
const DefaultCommandTimeout = 10 * time.Second

// CommandSource runs a native helper that prints a JSON device listing on
// stdout. The device class is appended as the last argument:
//
//	<command> <args...> video|audio
type CommandSource struct {
	command string
	args    []string
	timeout time.Duration
	logger  logger.Logger
}

var _ devicemap.Enumerator = (*CommandSource)(nil)

// NewCommandSource creates a CommandSource. A zero timeout selects
// DefaultCommandTimeout.
func NewCommandSource(command string, args []string, timeout time.Duration, log logger.Logger) *CommandSource {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	if log == nil {
		log = logger.Nop()
	}

	return &CommandSource{
		command: command,
		args:    append([]string(nil), args...),
		timeout: timeout,
		logger:  log,
	}
}

// Enumerate implements devicemap.Enumerator.
func (s *CommandSource) Enumerate(ctx context.Context, kind devicemap.Kind) ([]devicemap.LiveHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := append(append([]string(nil), s.args...), kind.String())

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, s.command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("device helper %s timed out after %s: %w", s.command, s.timeout, ctxErr)
		}

		return nil, fmt.Errorf("device helper %s failed: %w: %s",
			s.command, err, strings.TrimSpace(stderr.String()))
	}

	entries, err := decodeEntries(stdout.Bytes(), formatJSON)
	if err != nil {
		return nil, fmt.Errorf("device helper %s: %w", s.command, err)
	}

	handles := handlesOf(entries, kind)

	s.logger.Debug().
		Str("command", s.command).
		Str("kind", kind.String()).
		Int("devices", len(handles)).
		Dur("elapsed", time.Since(start)).
		Msg("Device helper returned listing")

	return handles, nil
}
