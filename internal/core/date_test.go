package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want DateParts
		ok   bool
	}{
		{"2024-01-15", DateParts{2024, 1, 15}, true},
		{"2024-1-5", DateParts{2024, 1, 5}, true},
		// Only the numeric shape is checked, not calendar validity.
		{"2024-13-40", DateParts{2024, 13, 40}, true},
		{"2024/01/15", DateParts{}, false},
		{"2024-01", DateParts{}, false},
		{"2024-01-15-3", DateParts{}, false},
		{"abcd-01-15", DateParts{}, false},
		{"2024-xx-15", DateParts{}, false},
		{"", DateParts{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("ParseDate(%q) = %+v, %v; want %+v", tc.in, got, err, tc.want)
			}
		} else {
			if err == nil {
				t.Fatalf("ParseDate(%q) expected error", tc.in)
			}
			if !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("ParseDate(%q) error = %v, want ErrInvalidDate", tc.in, err)
			}
		}
	}
}

func TestDateKeys(t *testing.T) {
	d := DateParts{Year: 2024, Month: 3, Day: 9}
	if got := d.MonthKey(); got != "2024-03" {
		t.Fatalf("MonthKey = %q, want 2024-03", got)
	}
	if got := d.YearKey(); got != "2024" {
		t.Fatalf("YearKey = %q, want 2024", got)
	}
}
