package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/9304065865a/podolog/internal/models"
	"github.com/9304065865a/podolog/internal/storage"
)

func TestRenderScheduleAggregatesSlots(t *testing.T) {
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 2)

	days := []models.ScheduleDay{
		{Date: from, StartTime: models.MustTimeOfDay("09:00"), EndTime: models.MustTimeOfDay("09:30"), IsWorkingDay: true},
		{Date: from, StartTime: models.MustTimeOfDay("09:30"), EndTime: models.MustTimeOfDay("10:00"), IsWorkingDay: true},
		{Date: from.AddDate(0, 0, 1), IsWorkingDay: false},
	}
	appts := []storage.AppointmentView{
		{Date: from, Time: models.MustTimeOfDay("09:00"), Name: "Anna"},
	}

	out := renderSchedule(from, to, days, appts)
	assert.Contains(t, out, "01.09.2026")
	assert.Contains(t, out, "09:00–10:00, 2 slots, 1 booked")
	assert.Contains(t, out, "day off")
	assert.Contains(t, out, "not set")
}

func TestRenderAppointments(t *testing.T) {
	appts := []storage.AppointmentView{
		{ID: 3, Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			Time: models.MustTimeOfDay("10:00"), Name: "Anna", Phone: "+1", PhotoPath: "photos/1.jpg"},
	}

	text, markup := renderAppointments(appts)
	assert.Contains(t, text, "01.09.2026 10:00")
	assert.Contains(t, text, "Anna, +1")
	assert.Contains(t, text, "📸")

	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Contains(t, markup.InlineKeyboard[0][0].Data, "3")

	text, markup = renderAppointments(nil)
	assert.Contains(t, text, "No upcoming appointments")
	require.NotNil(t, markup)
}
