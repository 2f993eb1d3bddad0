// pkg/winget/layout.go
package winget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// cellWidth measures console cells. winget output is not East Asian
// ambiguous-wide, so "…" is one cell whatever the host locale says.
var cellWidth = &runewidth.Condition{EastAsianWidth: false}

// ErrMalformedHeader means a header line was found but a column label the
// parser relies on is missing from it.
var ErrMalformedHeader = errors.New("malformed upgrade table header")

// Table is the position of the upgrade table within a block of lines
type Table struct {
	Layout ColumnLayout
	Header int // index of the header line
	Start  int // index of the first data line
}

// LocateHeader finds the header row and derives the column layout from it.
// It returns nil and no error when the lines contain no header, which is how
// winget reports that nothing needs upgrading.
func LocateHeader(lines []string) (*Table, error) {
	header := -1
	for i, line := range lines {
		if isHeader(line) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, nil
	}

	layout, err := NewColumnLayout(lines[header])
	if err != nil {
		return nil, err
	}

	// Data follows the dash rule; without one it follows the header directly.
	// Only the first non-blank line after the header can be the rule.
	start := header + 1
	for i := header + 1; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " ")
		if line == "" {
			continue
		}
		if isRule(line, minRuleWidth) {
			start = i + 1
		}
		break
	}

	return &Table{Layout: layout, Header: header, Start: start}, nil
}

func isHeader(line string) bool {
	return strings.Contains(line, LabelName) &&
		strings.Contains(line, LabelID) &&
		strings.Contains(line, LabelVersion)
}

// NewColumnLayout records where each trailing column label begins in the
// header line. Labels are searched left to right. The header is ASCII, so
// its byte offsets are also its display columns.
func NewColumnLayout(header string) (ColumnLayout, error) {
	pos := strings.Index(header, LabelName)
	if pos < 0 {
		return ColumnLayout{}, fmt.Errorf("%w: missing %q column in %q", ErrMalformedHeader, LabelName, strings.TrimSpace(header))
	}
	pos += len(LabelName)

	var offsets [4]int
	for i, label := range []string{LabelID, LabelVersion, LabelAvailable, LabelSource} {
		idx := strings.Index(header[pos:], label)
		if idx < 0 {
			return ColumnLayout{}, fmt.Errorf("%w: missing %q column in %q", ErrMalformedHeader, label, strings.TrimSpace(header))
		}
		offsets[i] = pos + idx
		pos = offsets[i] + len(label)
	}

	return ColumnLayout{
		ID:        offsets[0],
		Version:   offsets[1],
		Available: offsets[2],
		Source:    offsets[3],
	}, nil
}

// Slice cuts a data line into a record along the layout's column boundaries.
// winget pads rows by display width, so the offsets are matched against
// display columns of the line. Offsets past the end of the line yield empty
// fields.
func (l ColumnLayout) Slice(line string) PackageRecord {
	cuts := byteOffsets(line, l.ID, l.Version, l.Available, l.Source)
	return PackageRecord{
		Name:      column(line, 0, cuts[0]),
		ID:        column(line, cuts[0], cuts[1]),
		Version:   column(line, cuts[1], cuts[2]),
		Available: column(line, cuts[2], cuts[3]),
		Source:    column(line, cuts[3], len(line)),
	}
}

// byteOffsets maps ascending display columns to byte positions in line: the
// start of the first rune at or past each column, or len(line).
func byteOffsets(line string, cols ...int) []int {
	out := make([]int, len(cols))
	next, width := 0, 0
	for i, r := range line {
		for next < len(cols) && width >= cols[next] {
			out[next] = i
			next++
		}
		if next == len(cols) {
			return out
		}
		width += cellWidth.RuneWidth(r)
	}
	for ; next < len(cols); next++ {
		out[next] = len(line)
	}
	return out
}

func column(line string, start, end int) string {
	if start >= end {
		return ""
	}
	return strings.TrimSpace(line[start:end])
}
