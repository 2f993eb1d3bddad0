// pkg/winget/types.go
package winget

import "fmt"

// PackageRecord is one row of the `winget upgrade` table
type PackageRecord struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	Version   string `json:"version"`
	Available string `json:"available"`
	Source    string `json:"source"`
}

// ColumnLayout holds the byte offsets at which the Id, Version, Available and
// Source columns begin. The Name column occupies [0, ID).
type ColumnLayout struct {
	ID        int
	Version   int
	Available int
	Source    int
}

// OutcomeKind classifies the result of a single upgrade invocation
type OutcomeKind int

const (
	Success OutcomeKind = iota
	AlreadyUpToDate
	NeedsClose
	NotFound
	GenericFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case AlreadyUpToDate:
		return "up-to-date"
	case NeedsClose:
		return "needs-close"
	case NotFound:
		return "not-found"
	case GenericFailure:
		return "failure"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Failed reports whether the kind is failure-like. NeedsClose is a
// user-actionable condition, not a failure.
func (k OutcomeKind) Failed() bool {
	return k == NotFound || k == GenericFailure
}

// MarshalText lets outcomes be archived and printed as JSON by name
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the names produced by MarshalText
func (k *OutcomeKind) UnmarshalText(text []byte) error {
	for _, candidate := range []OutcomeKind{Success, AlreadyUpToDate, NeedsClose, NotFound, GenericFailure} {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown outcome kind: %q", text)
}

// Outcome is the classified result of upgrading one package
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	ID     string      `json:"id"`
	Detail string      `json:"detail"`
}

func (o Outcome) String() string {
	return fmt.Sprintf("%s - %s", o.ID, o.Detail)
}

// CommandResult is the captured result of one winget invocation
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the process exited with status 0
func (r CommandResult) Succeeded() bool {
	return r.ExitCode == 0
}
