// internal/cli/render.go
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/arc-language/wupd/pkg/core"
	"github.com/arc-language/wupd/pkg/winget"
)

const maxNameWidth = 40

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// renderTable prints packages in aligned columns, padded by display width
func renderTable(w io.Writer, pkgs []core.Package) {
	rows := [][]string{{"Name", "Id", "Version", "Available", "Source"}}
	for _, p := range pkgs {
		source := p.Source
		if p.Held {
			source += " (held)"
		}
		rows = append(rows, []string{
			runewidth.Truncate(p.Name, maxNameWidth, "…"),
			p.ID, p.Version, p.Available, source,
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
			} else {
				cells[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		line := strings.Join(cells, "  ")
		if r == 0 {
			line = headerStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

// renderResults prints one line per outcome
func renderResults(w io.Writer, results []winget.Outcome) {
	for _, o := range results {
		fmt.Fprintf(w, "  %s %s\n", marker(o.Kind), o)
	}
}

// renderSummary prints outcome counts for a batch
func renderSummary(w io.Writer, results winget.Results) {
	counts := results.Summary()
	fmt.Fprintf(w, "\n%d updated, %d up to date, %d need closing, %d failed\n",
		counts[winget.Success],
		counts[winget.AlreadyUpToDate],
		counts[winget.NeedsClose],
		counts[winget.NotFound]+counts[winget.GenericFailure])
}

func marker(kind winget.OutcomeKind) string {
	switch kind {
	case winget.Success:
		return successStyle.Render("✓")
	case winget.AlreadyUpToDate:
		return infoStyle.Render("i")
	case winget.NeedsClose:
		return warnStyle.Render("!")
	default:
		return failureStyle.Render("✗")
	}
}
