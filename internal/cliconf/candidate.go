package cliconf

import (
	"strings"

	"github.com/kestrelnet/cliconf/internal/executor"
)

// ParseCandidate splits raw configuration text into an ordered
// candidate line sequence. Leading and trailing blank text is dropped;
// interior lines are kept verbatim so indentation-sensitive dialects
// survive.
func ParseCandidate(text string) []executor.Command {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	lines := strings.Split(trimmed, "\n")
	candidate := make([]executor.Command, 0, len(lines))
	for _, line := range lines {
		candidate = append(candidate, executor.Command{Command: strings.TrimRight(line, "\r")})
	}
	return candidate
}

// SkipLine reports whether a candidate line is a terminator or comment
// that must not be sent to the device: the bare "end" keyword and
// lines starting with "!".
func SkipLine(cmd executor.Command) bool {
	line := strings.TrimSpace(cmd.Command)
	return line == "" || line == "end" || strings.HasPrefix(line, "!")
}
