package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTime reports time-of-day text that does not parse as HH:MM.
var ErrInvalidTime = errors.New("models: invalid time of day")

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// It maps to a Postgres TIME column.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay parses "HH:MM" (also accepts "HH:MM:SS").
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return TimeOfDay(h*60 + m), nil
}

// MustTimeOfDay parses "HH:MM" and panics on failure. Intended for
// configuration defaults and tests.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Valid reports whether t falls within a single day.
func (t TimeOfDay) Valid() bool { return t >= 0 && t < minutesPerDay }

// Add returns t shifted forward by the given number of minutes.
func (t TimeOfDay) Add(minutes int) TimeOfDay { return t + TimeOfDay(minutes) }

// String formats t as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Scan implements sql.Scanner. Drivers return TIME columns as strings,
// byte slices, or time.Time depending on configuration.
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = 0
		return nil
	case time.Time:
		*t = TimeOfDay(v.Hour()*60 + v.Minute())
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("models: cannot scan %T into TimeOfDay", src)
	}
}

// Value implements driver.Valuer, emitting "HH:MM:SS" for TIME columns.
func (t TimeOfDay) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidTime, int(t))
	}
	return fmt.Sprintf("%02d:%02d:00", t.Hour(), t.Minute()), nil
}

// TimeRange is an offered slot: the start time is bookable, the end time
// bounds the visit.
type TimeRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

// DateOnly truncates ts to midnight UTC so calendar dates compare and
// round-trip through DATE columns consistently.
func DateOnly(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const (
	// DateISO is the wire format used in callback payloads.
	DateISO = "2006-01-02"
	// DateHuman is the format shown to users.
	DateHuman = "02.01.2006"
)

// ParseDateISO parses a callback payload date.
func ParseDateISO(s string) (time.Time, error) {
	ts, err := time.Parse(DateISO, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("models: invalid date %q: %w", s, err)
	}
	return DateOnly(ts), nil
}
