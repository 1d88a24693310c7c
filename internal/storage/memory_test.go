package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/9304065865a/podolog/internal/models"
)

func day(s string) time.Time {
	d, err := models.ParseDateISO(s)
	if err != nil {
		panic(err)
	}
	return d
}

func slots(times ...string) []models.TimeRange {
	out := make([]models.TimeRange, 0, len(times))
	for _, s := range times {
		start := models.MustTimeOfDay(s)
		out = append(out, models.TimeRange{Start: start, End: start.Add(30)})
	}
	return out
}

func TestCreateAppointmentRejectsTakenSlot(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	date := day("2026-09-01")
	at := models.MustTimeOfDay("10:00")

	first, err := store.CreateAppointment(ctx, ClientInput{Name: "Anna", Phone: "+1"}, date, at)
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	_, err = store.CreateAppointment(ctx, ClientInput{Name: "Boris", Phone: "+2"}, date, at)
	require.ErrorIs(t, err, ErrSlotTaken)

	// The losing attempt must not leave a client behind.
	views, err := store.ListAppointments(ctx, date, date)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Anna", views[0].Name)
}

func TestCancelFreesSlotForRebooking(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	date := day("2026-09-01")
	at := models.MustTimeOfDay("11:30")

	appt, err := store.CreateAppointment(ctx, ClientInput{Name: "Anna", Phone: "+1"}, date, at)
	require.NoError(t, err)

	require.NoError(t, store.CancelAppointment(ctx, appt.ID))
	require.ErrorIs(t, store.CancelAppointment(ctx, appt.ID), ErrNotFound)

	taken, err := store.IsSlotTaken(ctx, date, at)
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = store.CreateAppointment(ctx, ClientInput{Name: "Boris", Phone: "+2"}, date, at)
	require.NoError(t, err)
}

func TestAvailableTimesExcludesBookedSlots(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	date := day("2026-09-02")

	require.NoError(t, store.ReplaceScheduleDay(ctx, date, slots("09:00", "09:30", "10:00")))

	_, err := store.CreateAppointment(ctx, ClientInput{Name: "Anna", Phone: "+1"}, date, models.MustTimeOfDay("09:30"))
	require.NoError(t, err)

	avail, err := store.AvailableTimes(ctx, date)
	require.NoError(t, err)
	require.Len(t, avail, 2)
	assert.Equal(t, models.MustTimeOfDay("09:00"), avail[0].Start)
	assert.Equal(t, models.MustTimeOfDay("10:00"), avail[1].Start)
}

func TestReplaceScheduleDayDropsPriorRows(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	date := day("2026-09-03")

	require.NoError(t, store.ReplaceScheduleDay(ctx, date, slots("09:00", "09:30")))
	require.NoError(t, store.ReplaceScheduleDay(ctx, date, slots("14:00")))

	rows, err := store.ListSchedule(ctx, date, date)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.MustTimeOfDay("14:00"), rows[0].StartTime)
	assert.True(t, rows[0].IsWorkingDay)
}

func TestDayMarkersHideAvailability(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	date := day("2026-09-04")

	require.NoError(t, store.ReplaceScheduleDay(ctx, date, slots("09:00", "09:30")))
	require.NoError(t, store.MarkDayOff(ctx, date))

	avail, err := store.AvailableTimes(ctx, date)
	require.NoError(t, err)
	assert.Empty(t, avail)

	require.NoError(t, store.MarkLearningDay(ctx, date))
	avail, err = store.AvailableTimes(ctx, date)
	require.NoError(t, err)
	assert.Empty(t, avail)

	rows, err := store.ListSchedule(ctx, date, date)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsLearningDay)
}

func TestAvailableTimesOnUnsetDateIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	avail, err := store.AvailableTimes(ctx, day("2026-09-05"))
	require.NoError(t, err)
	assert.Empty(t, avail)
}

func TestListAppointmentsOrderedAndBounded(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	mk := func(date string, slot string) {
		_, err := store.CreateAppointment(ctx, ClientInput{Name: "N", Phone: "+0"},
			day(date), models.MustTimeOfDay(slot))
		require.NoError(t, err)
	}
	mk("2026-09-02", "12:00")
	mk("2026-09-01", "15:00")
	mk("2026-09-01", "09:00")
	mk("2026-09-10", "09:00") // outside the window

	views, err := store.ListAppointments(ctx, day("2026-09-01"), day("2026-09-05"))
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, models.MustTimeOfDay("09:00"), views[0].Time)
	assert.Equal(t, models.MustTimeOfDay("15:00"), views[1].Time)
	assert.True(t, views[2].Date.Equal(day("2026-09-02")))
}
