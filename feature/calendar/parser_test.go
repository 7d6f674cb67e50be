package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestParse_MinimalFeed parses a single well-formed event.
func TestParse_MinimalFeed(t *testing.T) {
	raw := "BEGIN:VCALENDAR\r\n" +
		"PRODID:-//Airbnb Inc//Hosting Calendar 1.0//EN\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:1418fb5a6041-7a79f6a7fe2cde084bbf9a2ba2e6b5aa@airbnb.com\r\n" +
		"DTSTART;VALUE=DATE:20260304\r\n" +
		"DTEND;VALUE=DATE:20260306\r\n" +
		"SUMMARY:Reserved\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events := Parse(raw)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "1418fb5a6041-7a79f6a7fe2cde084bbf9a2ba2e6b5aa@airbnb.com", e.UID)
	assert.Equal(t, "Reserved", e.Summary)
	assert.Equal(t, date(2026, 3, 4), e.StartDate)
	assert.Equal(t, date(2026, 3, 6), e.EndDate)
	assert.Equal(t, "1418fb5a6041", e.UIDPrefix)
}

// TestParse_LineFolding verifies folded lines are joined before tokenizing.
func TestParse_LineFolding(t *testing.T) {
	raw := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:abc12345-def@vrbo.com\r\n" +
		"DTSTART:20260110\r\n" +
		"DTEND:20260112\r\n" +
		"SUMMARY:John \r\n" +
		" Smith\r\n" +
		"DESCRIPTION:Reservation\r\n" +
		"  code: HMXYZ12345\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events := Parse(raw)
	require.Len(t, events, 1)
	assert.Equal(t, "John Smith", events[0].Summary)
	// The folded description keeps one of its two leading spaces.
	assert.Equal(t, "Reservation code: HMXYZ12345", events[0].Description)
	assert.Equal(t, "HMXYZ12345", events[0].ReservationCode)
}

// TestParse_Unescaping verifies iCal text escapes are reversed.
func TestParse_Unescaping(t *testing.T) {
	raw := "BEGIN:VCALENDAR\n" +
		"BEGIN:VEVENT\n" +
		"UID:u-1@example.com\n" +
		"DTSTART:20260101\n" +
		"DTEND:20260102\n" +
		`SUMMARY:One\, two\; three\nfour\\five` + "\n" +
		"END:VEVENT\n" +
		"END:VCALENDAR\n"

	events := Parse(raw)
	require.Len(t, events, 1)
	assert.Equal(t, "One, two; three\nfour\\five", events[0].Summary)
}

// TestParse_DateForms verifies every date shape normalizes to date-only UTC.
func TestParse_DateForms(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"DateOnly", "20261215", date(2026, 12, 15)},
		{"DateTime", "20261215T140000", date(2026, 12, 15)},
		{"DateTimeUTC", "20261215T140000Z", date(2026, 12, 15)},
		{"ISOWithDashes", "2026-12-15T14:00:00Z", date(2026, 12, 15)},
		{"ISODate", "2026-12-15", date(2026, 12, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := "BEGIN:VCALENDAR\nBEGIN:VEVENT\nUID:u-1@x.com\n" +
				"DTSTART:" + tt.value + "\nDTEND:" + tt.value + "\n" +
				"END:VEVENT\nEND:VCALENDAR\n"
			events := Parse(raw)
			require.Len(t, events, 1)
			assert.Equal(t, tt.want, events[0].StartDate)
		})
	}
}

// TestParse_DropsIncompleteEvents verifies events missing UID, start or end
// are dropped without failing the rest of the parse.
func TestParse_DropsIncompleteEvents(t *testing.T) {
	raw := "BEGIN:VCALENDAR\n" +
		"BEGIN:VEVENT\n" + // no UID
		"DTSTART:20260101\nDTEND:20260102\nSUMMARY:anonymous\n" +
		"END:VEVENT\n" +
		"BEGIN:VEVENT\n" + // no DTEND
		"UID:u-2@x.com\nDTSTART:20260101\n" +
		"END:VEVENT\n" +
		"BEGIN:VEVENT\n" + // complete
		"UID:u-3@x.com\nDTSTART:20260105\nDTEND:20260107\n" +
		"END:VEVENT\n" +
		"END:VCALENDAR\n"

	events := Parse(raw)
	require.Len(t, events, 1)
	assert.Equal(t, "u-3@x.com", events[0].UID)
}

// TestParse_IgnoresUnknownFields verifies unrecognized properties are skipped.
func TestParse_IgnoresUnknownFields(t *testing.T) {
	raw := "BEGIN:VCALENDAR\nBEGIN:VEVENT\n" +
		"UID:u-1@x.com\nDTSTART:20260101\nDTEND:20260103\n" +
		"LOCATION:Unit 4B\nSTATUS:CONFIRMED\nTRANSP:OPAQUE\n" +
		"END:VEVENT\nEND:VCALENDAR\n"

	events := Parse(raw)
	require.Len(t, events, 1)
}

// TestDeriveReservationCode covers the extraction priority order.
func TestDeriveReservationCode(t *testing.T) {
	tests := []struct {
		name        string
		description string
		summary     string
		want        string
	}{
		{"ExplicitPhrase", "Reservation code: ABCD1234", "", "ABCD1234"},
		{"ExplicitConfirmation", "confirmation code HM12345678", "", "HM12345678"},
		{"PlatformShape", "Guest arriving. HMABCDE123 applies.", "", "HMABCDE123"},
		{"NumericConfirmation", "Booking 123456789", "", "123456789"},
		{"SummaryFallback", "", "Stay HMZZZZZ999", "HMZZZZZ999"},
		{"ShapeBeatsNumericAcrossSources", "code stays 87654321", "HMAAAAA111", "HMAAAAA111"},
		{"ExplicitBeatsNumeric", "Reservation code: XYZ99876 ref 555666777", "", "XYZ99876"},
		{"NoCode", "Checkout by 10am", "Jane Doe", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveReservationCode(tt.description, tt.summary))
		})
	}
}

// TestDeriveUIDPrefix covers prefix-hash@domain UIDs and the fallback substring.
func TestDeriveUIDPrefix(t *testing.T) {
	tests := []struct {
		name string
		uid  string
		want string
	}{
		{"PrefixHashDomain", "1418fb5a6041-7a79f6a7fe@airbnb.com", "1418fb5a6041"},
		{"ShortPrefixFallsBack", "abc-123@vrbo.com", "abc-123@vrbo.com"},
		{"NoDomain", "0123456789abcdef0123456789", "0123456789abcdef"},
		{"ShortUID", "tiny-uid", "tiny-uid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveUIDPrefix(tt.uid))
		})
	}
}
