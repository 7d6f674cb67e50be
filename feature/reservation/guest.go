package reservation

import (
	"regexp"
	"strings"
)

// maxVerbatimGuestName bounds the fallback of using a summary verbatim as a
// guest name; longer summaries are almost always notes, not names.
const maxVerbatimGuestName = 60

var (
	reservedForRe = regexp.MustCompile(`(?i)reserved\s+for\s+(.+)`)
	// "Jane Doe - Airbnb" style suffixes some channel managers emit.
	platformSuffixRe = regexp.MustCompile(`(?i)^(.+?)\s*[-–]\s*(airbnb|vrbo|homeaway|booking(\.com)?)$`)
	capitalizedRe    = regexp.MustCompile(`^\p{Lu}[\p{L}'.-]*(\s+\p{Lu}[\p{L}'.-]*)+$`)
)

// GuestName extracts a best-effort guest name from an event summary.
// Generic block phrases yield no name.
func GuestName(summary string) string {
	s := strings.TrimSpace(summary)
	if s == "" || IsGenericSummary(s) {
		return ""
	}

	if m := reservedForRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(strings.Trim(m[1], ".!"))
	}
	if m := platformSuffixRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if capitalizedRe.MatchString(s) {
		return s
	}
	if len(s) <= maxVerbatimGuestName {
		return s
	}
	return ""
}
