// pkg/winget/parser.go
package winget

import "strings"

// ParseUpgradeList turns the captured output of `winget upgrade` into package
// records, in output order. Output without a table header yields an empty
// result; a header missing one of its columns is an error.
func ParseUpgradeList(output string) ([]PackageRecord, error) {
	lines := Unwrap(strings.Split(Sanitize(output), "\n"))

	table, err := LocateHeader(lines)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return []PackageRecord{}, nil
	}

	return ParseRecords(lines[table.Start:], table.Layout), nil
}

// ParseRecords slices data lines into records until the first blank line or
// summary footer. Rows without a name or an id are skipped.
func ParseRecords(lines []string, layout ColumnLayout) []PackageRecord {
	records := []PackageRecord{}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isFooter(trimmed) {
			break
		}

		rec := layout.Slice(line)
		if rec.Name == "" || rec.ID == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func isFooter(line string) bool {
	for _, re := range footerPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
