// Package normalize holds the pure value transforms applied to raw registry
// attributes before they are mapped onto form fields. Every function is
// total over strings and idempotent: feeding a normalized value back in
// returns it unchanged.
package normalize

import (
	"fmt"
	"strings"
	"time"
)

// Gender canonicalizes a registry gender marker. "m"/"male" in any case
// become "male", "f"/"female" become "female", anything else is empty.
func Gender(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "m", "male":
		return "male"
	case "f", "female":
		return "female"
	default:
		return ""
	}
}

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Date converts a registry date to a zero-padded ISO 8601 date string.
// Accepted input shapes: D/M/YYYY, D-M-YYYY, D-MMM-YYYY (month abbreviation,
// any case), and YYYY-M-D. Anything else is an error; callers treat the
// value as absent.
func Date(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}

	var parts []string
	switch {
	case strings.Contains(s, "/"):
		parts = strings.Split(s, "/")
	case strings.Contains(s, "-"):
		parts = strings.Split(s, "-")
	default:
		return "", fmt.Errorf("unrecognized date format %q", raw)
	}
	if len(parts) != 3 {
		return "", fmt.Errorf("unrecognized date format %q", raw)
	}

	var day, year int
	var month time.Month

	switch {
	case len(parts[0]) == 4:
		// YYYY-M-D
		y, mo, d, err := numericDate(parts[0], parts[1], parts[2])
		if err != nil {
			return "", err
		}
		year, month, day = y, mo, d
	case isMonthAbbrev(parts[1]):
		// D-MMM-YYYY
		d, err := atoi(parts[0])
		if err != nil {
			return "", err
		}
		y, err := atoi(parts[2])
		if err != nil {
			return "", err
		}
		day, month, year = d, monthAbbrev[strings.ToLower(parts[1])], y
	default:
		// D/M/YYYY or D-M-YYYY
		y, mo, d, err := numericDate(parts[2], parts[1], parts[0])
		if err != nil {
			return "", err
		}
		year, month, day = y, mo, d
	}

	if year < 1000 || year > 9999 {
		return "", fmt.Errorf("year out of range in %q", raw)
	}
	// Round-trip through time.Date to reject impossible dates like 31/2.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return "", fmt.Errorf("invalid calendar date %q", raw)
	}

	return t.Format("2006-01-02"), nil
}

func numericDate(yearPart, monthPart, dayPart string) (int, time.Month, int, error) {
	y, err := atoi(yearPart)
	if err != nil {
		return 0, 0, 0, err
	}
	m, err := atoi(monthPart)
	if err != nil {
		return 0, 0, 0, err
	}
	if m < 1 || m > 12 {
		return 0, 0, 0, fmt.Errorf("month %d out of range", m)
	}
	d, err := atoi(dayPart)
	if err != nil {
		return 0, 0, 0, err
	}
	return y, time.Month(m), d, nil
}

func isMonthAbbrev(s string) bool {
	_, ok := monthAbbrev[strings.ToLower(s)]
	return ok
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit in %q", s)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

// Phone canonicalizes a phone number to the local 11-digit form. All
// non-digit characters are stripped; a 13-digit number with the 234 country
// prefix is rewritten to its 0-prefixed local form. Anything that does not
// end up as 11 digits starting with 0 is an error.
func Phone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 13 && strings.HasPrefix(digits, "234") {
		digits = "0" + digits[3:]
	}
	if len(digits) != 11 || digits[0] != '0' {
		return "", fmt.Errorf("unrecognized phone number %q", raw)
	}
	return digits, nil
}

// FreeText trims the value and collapses internal whitespace runs to a
// single space. Case is preserved.
func FreeText(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// CompanyName applies the free-text rule and expands the trailing legal
// suffixes registries abbreviate: "Ltd" (with an optional period) becomes
// "Limited" and "PLC" becomes "Public Limited Company". Matching is
// case-insensitive and end-anchored only.
func CompanyName(raw string) string {
	name := FreeText(raw)
	if name == "" {
		return ""
	}

	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, " ltd."):
		return name[:len(name)-len(" ltd.")] + " Limited"
	case strings.HasSuffix(lower, " ltd"):
		return name[:len(name)-len(" ltd")] + " Limited"
	case strings.HasSuffix(lower, " plc"):
		return name[:len(name)-len(" plc")] + " Public Limited Company"
	default:
		return name
	}
}

// RegistryNumber applies the free-text rule and strips one leading "RC"
// prefix (any case) plus any whitespace that follows it.
func RegistryNumber(raw string) string {
	s := FreeText(raw)
	if len(s) >= 2 && strings.EqualFold(s[:2], "RC") {
		s = strings.TrimLeft(s[2:], " ")
	}
	return s
}
