// Package schedule generates the selectable time grids for the admin's
// schedule-fill conversation from the configured working window.
package schedule

import (
	"time"

	"github.com/9304065865a/podolog/internal/models"
)

// Options parameterize slot generation. SlotLen is the appointment duration
// in minutes and also the grid step.
type Options struct {
	WorkStart  models.TimeOfDay
	WorkEnd    models.TimeOfDay
	LunchStart models.TimeOfDay
	LunchEnd   models.TimeOfDay
	SlotLen    int
	DaysAhead  int
}

// inLunch reports whether a slot starting at t would fall into the lunch
// break. The lunch end itself is a valid start again.
func (o Options) inLunch(t models.TimeOfDay) bool {
	return t >= o.LunchStart && t < o.LunchEnd
}

// StartTimes returns the offerable start times: the working window on the
// SlotLen grid, minus the lunch break.
func (o Options) StartTimes() []models.TimeOfDay {
	out := []models.TimeOfDay{}
	for t := o.WorkStart; t < o.WorkEnd; t = t.Add(o.SlotLen) {
		if o.inLunch(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// EndTimesAfter returns the offerable end times for a day starting at start:
// grid points strictly after start up to and including the end of the working
// window. Ending exactly at the lunch boundary is allowed; ending inside the
// break is not.
func (o Options) EndTimesAfter(start models.TimeOfDay) []models.TimeOfDay {
	out := []models.TimeOfDay{}
	for t := start.Add(o.SlotLen); t <= o.WorkEnd; t = t.Add(o.SlotLen) {
		if t > o.LunchStart && t < o.LunchEnd {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SlotsBetween expands a working window into bookable slots on the SlotLen
// grid, skipping the lunch break. Windows shorter than one slot yield none.
func (o Options) SlotsBetween(start, end models.TimeOfDay) []models.TimeRange {
	out := []models.TimeRange{}
	for t := start; t.Add(o.SlotLen) <= end; t = t.Add(o.SlotLen) {
		if o.inLunch(t) {
			continue
		}
		out = append(out, models.TimeRange{Start: t, End: t.Add(o.SlotLen)})
	}
	return out
}

// Dates returns the next DaysAhead calendar dates starting today, for the
// date-selection keyboards.
func (o Options) Dates(now time.Time) []time.Time {
	today := models.DateOnly(now)
	out := make([]time.Time, 0, o.DaysAhead)
	for i := 0; i < o.DaysAhead; i++ {
		out = append(out, today.AddDate(0, 0, i))
	}
	return out
}
