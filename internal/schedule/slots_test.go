package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/9304065865a/podolog/internal/models"
)

func defaultOptions() Options {
	return Options{
		WorkStart:  models.MustTimeOfDay("09:00"),
		WorkEnd:    models.MustTimeOfDay("19:00"),
		LunchStart: models.MustTimeOfDay("13:00"),
		LunchEnd:   models.MustTimeOfDay("14:00"),
		SlotLen:    30,
		DaysAhead:  10,
	}
}

func TestStartTimesSkipLunch(t *testing.T) {
	got := defaultOptions().StartTimes()

	// 9:00-19:00 on a 30-minute grid is 20 starts, minus two during lunch.
	require.Len(t, got, 18)
	assert.Equal(t, models.MustTimeOfDay("09:00"), got[0])
	assert.Equal(t, models.MustTimeOfDay("18:30"), got[len(got)-1])
	for _, s := range got {
		assert.False(t, s >= models.MustTimeOfDay("13:00") && s < models.MustTimeOfDay("14:00"),
			"start %s falls into lunch", s)
	}
	// Work resumes exactly at lunch end.
	assert.Contains(t, got, models.MustTimeOfDay("14:00"))
}

func TestEndTimesAfterStart(t *testing.T) {
	opts := defaultOptions()

	got := opts.EndTimesAfter(models.MustTimeOfDay("18:00"))
	require.Len(t, got, 2)
	assert.Equal(t, models.MustTimeOfDay("18:30"), got[0])
	assert.Equal(t, models.MustTimeOfDay("19:00"), got[1])

	// Ending exactly at lunch start is allowed; inside the break is not.
	got = opts.EndTimesAfter(models.MustTimeOfDay("12:00"))
	assert.Contains(t, got, models.MustTimeOfDay("13:00"))
	assert.NotContains(t, got, models.MustTimeOfDay("13:30"))
}

func TestSlotsBetween(t *testing.T) {
	opts := defaultOptions()

	got := opts.SlotsBetween(models.MustTimeOfDay("12:00"), models.MustTimeOfDay("15:00"))
	starts := make([]string, 0, len(got))
	for _, s := range got {
		starts = append(starts, s.Start.String())
		assert.Equal(t, s.Start.Add(30), s.End)
	}
	assert.Equal(t, []string{"12:00", "12:30", "14:00", "14:30"}, starts)

	assert.Empty(t, opts.SlotsBetween(models.MustTimeOfDay("10:00"), models.MustTimeOfDay("10:00")))
	assert.Empty(t, opts.SlotsBetween(models.MustTimeOfDay("10:00"), models.MustTimeOfDay("10:15")))
}

func TestDatesHorizon(t *testing.T) {
	opts := defaultOptions()
	now := time.Date(2026, 8, 29, 17, 45, 0, 0, time.UTC)

	got := opts.Dates(now)
	require.Len(t, got, 10)
	assert.True(t, got[0].Equal(time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)))
	assert.True(t, got[9].Equal(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)))
}
