package core

import (
	"fmt"
	"strconv"
	"strings"
)

// DateParts holds the numeric components of a ledger date. The parser only
// checks the YYYY-MM-DD shape, not calendar validity: month 13 or day 40
// pass through, matching the permissive contract of the persisted format.
type DateParts struct {
	Year  int
	Month int
	Day   int
}

// ParseDate splits "YYYY-MM-DD" into its numeric components. It fails with
// ErrInvalidDate when the separators are wrong or a field is not an integer.
func ParseDate(s string) (DateParts, error) {
	fields := strings.Split(s, "-")
	if len(fields) != 3 {
		return DateParts{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	year, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return DateParts{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	month, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return DateParts{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	day, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return DateParts{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateParts{Year: year, Month: month, Day: day}, nil
}

// MonthKey returns the zero-padded "YYYY-MM" bucket key. Zero padding keeps
// lexicographic order equal to chronological order.
func (d DateParts) MonthKey() string {
	return fmt.Sprintf("%d-%02d", d.Year, d.Month)
}

// YearKey returns the "YYYY" bucket key.
func (d DateParts) YearKey() string {
	return strconv.Itoa(d.Year)
}
