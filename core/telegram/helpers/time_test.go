package helpers

import (
	"testing"
	"time"
)

func TestParseFlexibleDateLayouts(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
	}{
		{"2026-09-15", time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)},
		{"15.09.2026", time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)},
		{"2.1.2027", time.Date(2027, 1, 2, 0, 0, 0, 0, time.Local)},
		{"2026-09-15 10:30", time.Date(2026, 9, 15, 10, 30, 0, 0, time.Local)},
	}
	for _, tc := range cases {
		got, ok := ParseFlexibleDate(tc.input)
		if !ok {
			t.Errorf("ParseFlexibleDate(%q): not parsed", tc.input)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseFlexibleDate(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseFlexibleDateShortInfersYear(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.Local)

	got, ok := parseFlexibleDateAt("15.09", now)
	if !ok {
		t.Fatal("upcoming day-month not parsed")
	}
	if want := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got, ok = parseFlexibleDateAt("15.03", now)
	if !ok {
		t.Fatal("past day-month not parsed")
	}
	if want := time.Date(2027, 3, 15, 0, 0, 0, 0, time.Local); !got.Equal(want) {
		t.Errorf("past dates roll to next year: got %v, want %v", got, want)
	}
}

func TestParseFlexibleDateRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "  ", "tomorrow", "99.99", "2026/09/15"} {
		if _, ok := ParseFlexibleDate(input); ok {
			t.Errorf("ParseFlexibleDate(%q): expected failure", input)
		}
	}
}
