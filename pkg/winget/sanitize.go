// pkg/winget/sanitize.go
package winget

import "strings"

// Sanitize resolves carriage-return overwrites the way a terminal would:
// each line keeps only the text after its last '\r'. The number of lines
// is unchanged.
func Sanitize(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = sanitizeLine(line)
	}
	return strings.Join(lines, "\n")
}

func sanitizeLine(line string) string {
	// A lone trailing '\r' is a CRLF terminator, not an overwrite
	line = strings.TrimSuffix(line, "\r")
	if idx := strings.LastIndexByte(line, '\r'); idx >= 0 {
		return line[idx+1:]
	}
	return line
}
