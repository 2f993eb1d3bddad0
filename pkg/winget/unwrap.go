// pkg/winget/unwrap.go
package winget

import "strings"

// Unwrap rejoins lines that the console hard-wrapped at a fixed width.
//
// The wrap width is taken from the separator rule: when it is wider than the
// console it shows up as two adjacent all-dash lines, the first of which is
// exactly one console width long. Widths are counted in console cells. Text
// without such a pair is returned as is.
func Unwrap(lines []string) []string {
	width := wrapWidth(lines)
	if width == 0 {
		return lines
	}

	out := make([]string, 0, len(lines))
	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		// Only the last fragment of a logical line is narrower than the console
		if cellWidth.StringWidth(line) < width {
			out = append(out, buf.String())
			buf.Reset()
		}
	}
	if buf.Len() > 0 {
		out = append(out, buf.String())
	}
	return out
}

// wrapWidth returns the console width detected from a split separator, or 0
func wrapWidth(lines []string) int {
	for i := 0; i+1 < len(lines); i++ {
		if isRule(lines[i], 1) && isRule(lines[i+1], 1) {
			return len(lines[i])
		}
	}
	return 0
}

// isRule reports whether line is a run of at least minLen dashes and nothing else
func isRule(line string, minLen int) bool {
	if len(line) < minLen {
		return false
	}
	return strings.Trim(line, "-") == ""
}
