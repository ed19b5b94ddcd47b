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
	"fmt"
	"strconv"
	"strings"
)

// Convention is the rule a downstream capture library applies when two or more
// devices share a display name. It has to match the library byte for byte, so
// the set is closed.
type Convention int

const (
	// ConventionParenOrdinal leaves the first device of a duplicate group
	// unsuffixed and names the rest "<name> (2)", "<name> (3)", ...
	ConventionParenOrdinal Convention = iota
	// ConventionUniformOrdinal suffixes every member of a duplicate group:
	// "<name> (1)", "<name> (2)", ...
	ConventionUniformOrdinal
)

func (c Convention) String() string {
	switch c {
	case ConventionParenOrdinal:
		return "paren"
	case ConventionUniformOrdinal:
		return "uniform"
	default:
		return "convention(" + strconv.Itoa(int(c)) + ")"
	}
}

// ParseConvention maps a configuration value to a Convention. The empty
// string selects ConventionParenOrdinal.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "paren", "paren_ordinal":
		return ConventionParenOrdinal, nil
	case "uniform", "uniform_ordinal":
		return ConventionUniformOrdinal, nil
	default:
		return ConventionParenOrdinal, fmt.Errorf("%w: %q", errUnknownConvention, s)
	}
}

// firstOrdinal is the ordinal given to the first suffixed member of a group.
func (c Convention) firstOrdinal() int {
	if c == ConventionUniformOrdinal {
		return 1
	}

	return 2
}

// keepsFirst reports whether the first member of a duplicate group keeps the
// bare display name.
func (c Convention) keepsFirst() bool {
	return c != ConventionUniformOrdinal
}

// Suffixed returns display with the ordinal suffix applied.
func (Convention) Suffixed(display string, ordinal int) string {
	return display + " (" + strconv.Itoa(ordinal) + ")"
}
