// pkg/winget/constants.go
package winget

import "regexp"

const (
	// DefaultExecutable is looked up on PATH when no explicit path is configured
	DefaultExecutable = "winget"

	// Header labels, in left-to-right order
	LabelName      = "Name"
	LabelID        = "Id"
	LabelVersion   = "Version"
	LabelAvailable = "Available"
	LabelSource    = "Source"

	// minRuleWidth is the shortest dash run accepted as the header separator
	minRuleWidth = 3

	// maxDetailLength caps failure diagnostics, in characters
	maxDetailLength = 100

	defaultFailureDetail = "Update failed"
)

// Phrases winget prints when the target application is still running
var needsClosePhrases = []string{
	"application must be closed",
	"Close the application",
	"currently in use",
	"close all instances",
}

var (
	installedPhrases = []string{"Successfully installed", "successfully"}
	upToDatePhrases  = []string{"No applicable update found", "No newer package versions"}
	notFoundPhrases  = []string{"No package found"}
)

// Summary lines winget prints after the table
var footerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\s+upgrades?\s+available\.?$`),
	regexp.MustCompile(`^\d+\s+package\(s\)\s+have\s+version\s+numbers\s+that\s+cannot\s+be\s+determined`),
	regexp.MustCompile(`^The following packages have an upgrade available, but require explicit targeting`),
}
