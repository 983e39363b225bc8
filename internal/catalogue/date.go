package catalogue

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Date is a recording date whose month and day may be unknown.
// Unknown components are 0 and render as the "00" sentinel.
type Date struct {
	Year  int
	Month int
	Day   int
}

var (
	reISODate   = regexp.MustCompile(`^(\d{4})(?:-(\d{1,2})(?:-(\d{1,2}))?)?$`)
	reSlashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// ParseDate parses a catalogue date. Accepted forms are YYYY-MM-DD (with
// "00" for unknown month or day), YYYY-MM, YYYY and DD/MM/YYYY.
// Anything else yields the zero Date, which means fully unknown.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	// Spreadsheet exports sometimes carry a time part.
	if idx := strings.IndexAny(s, "T "); idx > 0 {
		s = s[:idx]
	}

	if m := reISODate.FindStringSubmatch(s); m != nil {
		return newDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := reSlashDate.FindStringSubmatch(s); m != nil {
		return newDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	return Date{}
}

func newDate(year, month, day int) Date {
	if year <= 0 {
		return Date{}
	}
	if month < 0 || month > 12 {
		month = 0
	}
	// A day without a month carries no information.
	if month == 0 || day < 0 || day > 31 {
		day = 0
	}
	return Date{Year: year, Month: month, Day: day}
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// IsZero reports whether the date is fully unknown.
func (d Date) IsZero() bool {
	return d.Year == 0
}

// String renders YYYY-MM-DD with "00" for unknown components,
// or "" when the year is unknown.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// YearString returns the four-digit year or "".
func (d Date) YearString() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d", d.Year)
}

// TagValue returns the most precise date form accepted by tag formats:
// YYYY-MM-DD, YYYY-MM or YYYY. Sentinel components are never written.
func (d Date) TagValue() string {
	switch {
	case d.IsZero():
		return ""
	case d.Month == 0:
		return d.YearString()
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return d.String()
	}
}
