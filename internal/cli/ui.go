// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Theme colors for terminal UI rendering.
var (
	Purple    = lipgloss.Color("99")
	Gray      = lipgloss.Color("245")
	LightGray = lipgloss.Color("241")
	White     = lipgloss.Color("15")
	Teal      = lipgloss.Color("#06ffa5")
)

// Reusable inline styles for compact key-value output.
var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	valueStyle = lipgloss.NewStyle().Foreground(Teal)

	// DimStyle is a muted style for secondary text.
	DimStyle = lipgloss.NewStyle().Foreground(Gray)
)

// Section represents a header with its corresponding rows.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// PrintSections renders each section as a styled table.
func PrintSections(
	sections []Section,
) {
	for _, sec := range sections {
		if sec.Title != "" {
			fmt.Println(labelStyle.Render(sec.Title))
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(Purple)).
			StyleFunc(func(row, _ int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return lipgloss.NewStyle().Bold(true).Foreground(White).Padding(0, 1)
				case row%2 == 0:
					return lipgloss.NewStyle().Foreground(Gray).Padding(0, 1)
				default:
					return lipgloss.NewStyle().Foreground(LightGray).Padding(0, 1)
				}
			}).
			Headers(sec.Headers...).
			Rows(sec.Rows...)

		fmt.Println(t)
	}
}

// PrintKV renders aligned label/value pairs.
func PrintKV(
	pairs [][2]string,
) {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}

	for _, p := range pairs {
		label := p[0] + strings.Repeat(" ", width-len(p[0]))
		fmt.Printf("%s  %s\n", labelStyle.Render(label), valueStyle.Render(p[1]))
	}
}

// PrintJSON marshals v with indentation and writes it to stdout.
func PrintJSON(
	v any,
) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
