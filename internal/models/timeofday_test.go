package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"09:00", "09:00", true},
		{"9:05", "09:05", true},
		{"23:59", "23:59", true},
		{"14:30:00", "14:30", true},
		{" 10:15 ", "10:15", true},
		{"24:00", "", false},
		{"10:60", "", false},
		{"abc", "", false},
		{"", "", false},
		{"10", "", false},
	}
	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidTime, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got.String(), "input %q", tc.in)
	}
}

func TestTimeOfDayScan(t *testing.T) {
	var v TimeOfDay

	require.NoError(t, v.Scan("14:30:00"))
	assert.Equal(t, MustTimeOfDay("14:30"), v)

	require.NoError(t, v.Scan([]byte("09:00:00")))
	assert.Equal(t, MustTimeOfDay("09:00"), v)

	require.NoError(t, v.Scan(time.Date(2026, 1, 1, 17, 45, 0, 0, time.UTC)))
	assert.Equal(t, MustTimeOfDay("17:45"), v)

	require.NoError(t, v.Scan(nil))
	assert.Equal(t, TimeOfDay(0), v)

	assert.Error(t, v.Scan(3.14))
}

func TestTimeOfDayValue(t *testing.T) {
	got, err := MustTimeOfDay("08:05").Value()
	require.NoError(t, err)
	assert.Equal(t, "08:05:00", got)
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2026, 8, 29, 17, 45, 33, 12, time.FixedZone("X", 3*3600))
	got := DateOnly(ts)
	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDateISO(t *testing.T) {
	d, err := ParseDateISO("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDateISO("01.09.2026")
	assert.Error(t, err)
}
