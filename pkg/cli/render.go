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
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/carverauto/devicemap/pkg/devicemap"
)

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
)

//nolint:gochecknoglobals // column layout shared by both renderers
var tableHeaders = []string{"HWID", "DISPLAY NAME", "DOWNSTREAM NAME", "HOST LABEL", "KEY"}

type styles struct {
	header, cell, suffixed, border, title, muted lipgloss.Style
}

func newStyles() styles {
	return styles{
		header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)).
			Bold(true).
			Padding(0, 1),
		cell: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaForeground)).
			Padding(0, 1),
		suffixed: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaYellow)).
			Padding(0, 1),
		border: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPurple)),
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)).
			Bold(true),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
	}
}

// Renderer writes tables and records either as a styled lipgloss table for
// terminals or as plain tab-aligned text.
type Renderer struct {
	out    io.Writer
	styled bool
	styles styles
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer, styled bool) *Renderer {
	return &Renderer{out: out, styled: styled, styles: newStyles()}
}

func recordRow(r devicemap.Record) []string {
	return []string{
		r.HardwareID().String(),
		r.DisplayName(),
		r.DownstreamName(),
		r.HostLabel(),
		r.UniqueKey(),
	}
}

// Table renders every record of t in enumeration order. kind names the class
// that was enumerated, which an empty table cannot report itself.
func (p *Renderer) Table(kind devicemap.Kind, t *devicemap.Table) error {
	records := t.Records()

	if len(records) == 0 {
		_, err := fmt.Fprintf(p.out, "No %s devices found.\n", kind)

		return err
	}

	if !p.styled {
		w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)

		for i, h := range tableHeaders {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}

			fmt.Fprint(w, h)
		}

		fmt.Fprintln(w)

		for _, r := range records {
			row := recordRow(r)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", row[0], row[1], row[2], row[3], row[4])
		}

		return w.Flush()
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, recordRow(r))
	}

	s := p.styles
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.border).
		Headers(tableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.header
			case col == 2 && records[row].DownstreamName() != records[row].DisplayName():
				return s.suffixed
			default:
				return s.cell
			}
		})

	title := s.title.Render(fmt.Sprintf("%s devices", kind)) + " " +
		s.muted.Render("snapshot "+t.SnapshotID().String())

	_, err := fmt.Fprintln(p.out, lipgloss.JoinVertical(lipgloss.Left, title, tbl.Render()))

	return err
}

// Record renders a single record as aligned key/value lines.
func (p *Renderer) Record(r devicemap.Record) error {
	fields := [][2]string{
		{"Kind", r.Kind().String()},
		{"Hardware ID", strconv.FormatUint(uint64(r.HardwareID()), 10)},
		{"Display name", r.DisplayName()},
		{"Downstream name", r.DownstreamName()},
		{"Host label", r.HostLabel()},
		{"Unique key", r.UniqueKey()},
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 1, ' ', 0)

	for _, f := range fields {
		if f[1] == "" {
			continue
		}

		key := f[0]
		if p.styled {
			key = p.styles.title.Render(key)
		}

		fmt.Fprintf(w, "%s\t: %s\n", key, f[1])
	}

	return w.Flush()
}

type tableJSON struct {
	SnapshotID string             `json:"snapshot_id"`
	Kind       devicemap.Kind     `json:"kind"`
	BuiltAt    time.Time          `json:"built_at"`
	Devices    []devicemap.Record `json:"devices"`
}

// TableJSON writes t with its snapshot metadata as indented JSON.
func (p *Renderer) TableJSON(kind devicemap.Kind, t *devicemap.Table) error {
	return p.JSON(tableJSON{
		SnapshotID: t.SnapshotID().String(),
		Kind:       kind,
		BuiltAt:    t.BuiltAt(),
		Devices:    t.Records(),
	})
}

// JSON writes v as indented JSON.
func (p *Renderer) JSON(v interface{}) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
