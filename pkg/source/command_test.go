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
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/devicemap/pkg/devicemap"
)

const helperEnv = "DEVICEMAP_WANT_HELPER_PROCESS"

// TestHelperProcess is not a real test; CommandSource tests re-execute the
// test binary as a fake native helper.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}

	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: -- <mode> <kind>")
		os.Exit(2)
	}

	switch mode := args[1]; mode {
	case "list":
		fmt.Fprint(os.Stdout, listingJSON)
	case "garbage":
		fmt.Fprint(os.Stdout, "camera permission prompt pending")
	case "fail":
		fmt.Fprint(os.Stderr, "TCC denied microphone access")
		os.Exit(3)
	case "sleep":
		time.Sleep(time.Minute)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q", mode)
		os.Exit(2)
	}

	os.Exit(0)
}

func helperSource(t *testing.T, mode string, timeout time.Duration) *CommandSource {
	t.Helper()
	t.Setenv(helperEnv, "1")

	return NewCommandSource(os.Args[0], []string{"-test.run=TestHelperProcess", "--", mode}, timeout, nil)
}

func TestCommandSource(t *testing.T) {
	handles, err := helperSource(t, "list", 0).Enumerate(context.Background(), devicemap.KindAudioInput)
	require.NoError(t, err)
	require.Len(t, handles, 3)
	assert.Equal(t, "Mic", handles[0].DisplayName())
	assert.Equal(t, "A1", handles[0].UniqueKey())
}

func TestCommandSourceFailures(t *testing.T) {
	_, err := helperSource(t, "fail", 0).Enumerate(context.Background(), devicemap.KindAudioInput)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TCC denied microphone access")

	_, err = helperSource(t, "garbage", 0).Enumerate(context.Background(), devicemap.KindAudioInput)
	require.ErrorIs(t, err, ErrInvalidListing)

	_, err = helperSource(t, "sleep", 200*time.Millisecond).Enumerate(context.Background(), devicemap.KindAudioInput)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCommandSourceDefaults(t *testing.T) {
	src := NewCommandSource("helper", []string{"--json"}, 0, nil)

	assert.Equal(t, DefaultCommandTimeout, src.timeout)
	assert.Equal(t, []string{"--json"}, src.args)
}
