package calendar

import (
	"regexp"
	"strings"
	"time"

	"cleansync/feature/calendar/models"
)

// Reservation code patterns, in priority order: an explicit phrase beats the
// Airbnb-style code shape, which beats a bare confirmation number.
var (
	explicitCodeRe = regexp.MustCompile(`(?i)(?:reservation|confirmation)\s+code\s*:?\s*([A-Z0-9]{6,})`)
	platformCodeRe = regexp.MustCompile(`\bHM[A-Z0-9]{8}\b`)
	numericCodeRe  = regexp.MustCompile(`\b[0-9]{8,}\b`)
)

// uidPrefixLen is the fallback grouping prefix taken from the raw UID when
// it is not shaped like prefix-hash@domain. Long enough to keep distinct
// hex UIDs apart, short enough to survive re-issued trailing segments.
const uidPrefixLen = 16

// Parse turns raw iCalendar text into a flat list of RawEvents.
//
// Malformed event blocks are dropped rather than failing the parse: a feed
// with one bad VEVENT still yields every valid one. Parse never returns an
// error for this reason.
func Parse(raw string) []models.RawEvent {
	var events []models.RawEvent
	var current *models.RawEvent

	for _, line := range unfold(raw) {
		name, value, ok := splitProperty(line)
		if !ok {
			continue
		}

		switch name {
		case "BEGIN":
			if value == "VEVENT" {
				current = &models.RawEvent{}
			}
		case "END":
			if value == "VEVENT" && current != nil {
				if current.UID != "" && !current.StartDate.IsZero() && !current.EndDate.IsZero() {
					current.ReservationCode = deriveReservationCode(current.Description, current.Summary)
					current.UIDPrefix = deriveUIDPrefix(current.UID)
					events = append(events, *current)
				}
				current = nil
			}
		case "UID":
			if current != nil {
				current.UID = unescape(value)
			}
		case "SUMMARY":
			if current != nil {
				current.Summary = unescape(value)
			}
		case "DESCRIPTION":
			if current != nil {
				current.Description = unescape(value)
			}
		case "DTSTART":
			if current != nil {
				current.StartDate = parseDate(value)
			}
		case "DTEND":
			if current != nil {
				current.EndDate = parseDate(value)
			}
		}
	}

	return events
}

// unfold reverses RFC 5545 line folding: a line starting with a space or tab
// continues the previous line. Folding must be undone before tokenizing or
// folded field values would be corrupted.
func unfold(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// splitProperty splits "NAME;PARAM=X:value" into name and value, discarding
// property parameters.
func splitProperty(line string) (name, value string, ok bool) {
	colon := strings.Index(line, ":")
	if colon == -1 {
		return "", "", false
	}

	name = line[:colon]
	value = line[colon+1:]

	if semi := strings.Index(name, ";"); semi != -1 {
		name = name[:semi]
	}
	return name, value, true
}

// parseDate normalizes an iCal date or date-time value to a date-only value
// at midnight UTC. The first 8 digits become year/month/day; sub-day
// precision and zone suffixes are intentionally discarded since the domain
// unit is a day.
func parseDate(value string) time.Time {
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == 8 {
				break
			}
		}
	}
	if digits.Len() < 8 {
		return time.Time{}
	}

	t, err := time.Parse("20060102", digits.String())
	if err != nil {
		return time.Time{}
	}
	return t
}

// unescape reverses iCal text escaping for newline, comma, semicolon and
// backslash.
func unescape(value string) string {
	value = strings.ReplaceAll(value, `\n`, "\n")
	value = strings.ReplaceAll(value, `\,`, ",")
	value = strings.ReplaceAll(value, `\;`, ";")
	value = strings.ReplaceAll(value, `\\`, `\`)
	return value
}

// deriveReservationCode extracts a best-effort confirmation code, searching
// the description before the summary for each pattern.
func deriveReservationCode(description, summary string) string {
	for _, re := range []*regexp.Regexp{explicitCodeRe, platformCodeRe, numericCodeRe} {
		for _, source := range []string{description, summary} {
			if source == "" {
				continue
			}
			m := re.FindStringSubmatch(source)
			if m == nil {
				continue
			}
			if len(m) > 1 {
				return m[1]
			}
			return m[0]
		}
	}
	return ""
}

// deriveUIDPrefix extracts a grouping key from a feed UID. UIDs shaped
// prefix-hash@domain keep the prefix when it is substantial; anything else
// falls back to a fixed-length leading substring.
func deriveUIDPrefix(uid string) string {
	if at := strings.Index(uid, "@"); at > 0 {
		local := uid[:at]
		if dash := strings.LastIndex(local, "-"); dash > 0 {
			prefix := local[:dash]
			if len(prefix) >= 8 {
				return prefix
			}
		}
	}

	if len(uid) > uidPrefixLen {
		return uid[:uidPrefixLen]
	}
	return uid
}
