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
	"path/filepath"
	"strings"

	"github.com/carverauto/devicemap/pkg/devicemap"
	"github.com/carverauto/devicemap/pkg/logger"
)

// FileSource enumerates devices from a listing file, re-reading it on every
// call so edits behave like hotplug. Files ending in .yaml or .yml are YAML;
// everything else is JSON.
type FileSource struct {
	path   string
	logger logger.Logger
}

var _ devicemap.Enumerator = (*FileSource)(nil)

// NewFileSource creates a FileSource reading path.
func NewFileSource(path string, log logger.Logger) *FileSource {
	if log == nil {
		log = logger.Nop()
	}

	return &FileSource{path: path, logger: log}
}

// Enumerate implements devicemap.Enumerator.
func (s *FileSource) Enumerate(ctx context.Context, kind devicemap.Kind) ([]devicemap.LiveHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading device listing: %w", err)
	}

	f := formatJSON

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		f = formatYAML
	}

	entries, err := decodeEntries(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	handles := handlesOf(entries, kind)

	s.logger.Debug().
		Str("path", s.path).
		Str("kind", kind.String()).
		Int("devices", len(handles)).
		Msg("Read device listing")

	return handles, nil
}
