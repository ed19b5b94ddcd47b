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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/carverauto/devicemap/pkg/devicemap"
	"github.com/carverauto/devicemap/pkg/logger"
)

// DefaultV4L2Root is where the kernel publishes video4linux nodes.
const DefaultV4L2Root = "/sys/class/video4linux"

// V4L2Source enumerates Linux video capture nodes from sysfs. The node number
// (video<N>) is the hardware ID. The unique key is the bus device the node
// hangs off plus the node's interface index, which survives renumbering after
// a replug into the same port. Audio is not published there; audio
// enumeration returns no devices.
type V4L2Source struct {
	root   string
	logger logger.Logger
}

var _ devicemap.Enumerator = (*V4L2Source)(nil)

// NewV4L2Source creates a V4L2Source rooted at root (DefaultV4L2Root when empty).
func NewV4L2Source(root string, log logger.Logger) *V4L2Source {
	if root == "" {
		root = DefaultV4L2Root
	}

	if log == nil {
		log = logger.Nop()
	}

	return &V4L2Source{root: root, logger: log}
}

// Enumerate implements devicemap.Enumerator.
func (s *V4L2Source) Enumerate(ctx context.Context, kind devicemap.Kind) ([]devicemap.LiveHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if kind != devicemap.KindVideoInput {
		return nil, nil
	}

	nodes, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug().Str("root", s.root).Msg("No video4linux class directory")

			return nil, nil
		}

		return nil, fmt.Errorf("reading %s: %w", s.root, err)
	}

	type node struct {
		n    uint64
		name string
	}

	found := make([]node, 0, len(nodes))

	for _, entry := range nodes {
		n, err := strconv.ParseUint(strings.TrimPrefix(entry.Name(), "video"), 10, 32)
		if !strings.HasPrefix(entry.Name(), "video") || err != nil {
			continue
		}

		found = append(found, node{n: n, name: entry.Name()})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	handles := make([]devicemap.LiveHandle, 0, len(found))

	for _, nd := range found {
		dir := filepath.Join(s.root, nd.name)

		name := readFirstLine(filepath.Join(dir, "name"))
		if name == "" {
			name = "/dev/" + nd.name
		}

		handles = append(handles, NewHandle(devicemap.KindVideoInput, devicemap.HardwareID(nd.n), name, nodeKey(dir)))
	}

	s.logger.Debug().Str("root", s.root).Int("devices", len(handles)).Msg("Read video4linux nodes")

	return handles, nil
}

func nodeKey(dir string) string {
	target, err := filepath.EvalSymlinks(filepath.Join(dir, "device"))
	if err != nil {
		return ""
	}

	index := readFirstLine(filepath.Join(dir, "index"))
	if index == "" {
		index = "0"
	}

	return filepath.Base(target) + ":" + index
}

func readFirstLine(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	line, _, _ := strings.Cut(string(raw), "\n")

	return strings.TrimSpace(line)
}
