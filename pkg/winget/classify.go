// pkg/winget/classify.go
package winget

import "strings"

// Classify maps the captured result of `winget upgrade --id <id>` to an
// outcome. It always returns exactly one outcome.
func Classify(id string, res CommandResult) Outcome {
	combined := res.Stdout + "\n" + res.Stderr

	// A running application blocks the installer whatever the exit status says
	if containsAny(combined, needsClosePhrases) {
		return Outcome{Kind: NeedsClose, ID: id, Detail: "needs to be closed before updating"}
	}

	if res.Succeeded() {
		switch {
		case containsAny(res.Stdout, installedPhrases):
			return Outcome{Kind: Success, ID: id, Detail: "updated successfully"}
		case containsAny(res.Stdout, upToDatePhrases):
			return Outcome{Kind: AlreadyUpToDate, ID: id, Detail: "already up to date"}
		case containsAny(res.Stdout, notFoundPhrases):
			return Outcome{Kind: NotFound, ID: id, Detail: "package not found"}
		default:
			// winget's wording is not stable; trust the exit status
			return Outcome{Kind: Success, ID: id, Detail: "completed"}
		}
	}

	return Outcome{Kind: GenericFailure, ID: id, Detail: failureDetail(res)}
}

// failureDetail picks a one-line diagnostic from a failed invocation
func failureDetail(res CommandResult) string {
	stdout := Sanitize(res.Stdout)
	stderr := Sanitize(res.Stderr)

	detail := firstNonBlank(stderr)
	if detail == "" || detail == strings.TrimSpace(stdout) {
		detail = lastNonBlank(stdout)
	}
	if detail == "" {
		detail = defaultFailureDetail
	}
	return truncate(detail, maxDetailLength)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func firstNonBlank(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func lastNonBlank(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
