// Package session implements the candidate-configuration load
// machinery shared by all device adapters. Two strategies exist:
// Direct streams lines straight onto the running configuration,
// Staged isolates them in a vendor-side session that is committed or
// discarded as a whole.
package session

import (
	"regexp"
	"strings"
)

// errorIndicators match the error banners the supported CLI dialects
// print when a command is rejected.
var errorIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^%\s`),
	regexp.MustCompile(`(?im)^error[:\s]`),
	regexp.MustCompile(`(?i)invalid input`),
	regexp.MustCompile(`(?i)incomplete command`),
	regexp.MustCompile(`(?i)syntax error`),
	regexp.MustCompile(`(?i)unknown command`),
}

// IsErrorResponse reports whether a device response carries an error
// indication for the submitted command.
func IsErrorResponse(response string) bool {
	for _, re := range errorIndicators {
		if re.MatchString(response) {
			return true
		}
	}
	return false
}

// trimDiff normalizes a device diff for return to the caller.
func trimDiff(diff string) string {
	return strings.TrimSpace(diff)
}

// firstErrorLine extracts the first non-empty line of an error
// response so wrapped errors stay one line.
func firstErrorLine(response string) string {
	for _, line := range strings.Split(response, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return "command rejected by device"
}
