// Package storage owns the persisted booking entities and answers
// availability queries against them.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/9304065865a/podolog/internal/models"
)

var (
	// ErrSlotTaken reports that a non-cancelled appointment already occupies
	// the requested (date, time) slot.
	ErrSlotTaken = errors.New("storage: slot already taken")
	// ErrNotFound reports a lookup that matched no rows.
	ErrNotFound = errors.New("storage: not found")
)

// ClientInput carries the collected client fields for a new appointment.
// Values are stored verbatim.
type ClientInput struct {
	Name               string
	Phone              string
	ProblemDescription string
	PhotoPath          string
}

// AppointmentView is an appointment joined with its client for display.
type AppointmentView struct {
	ID        int64            `db:"id"`
	Date      time.Time        `db:"date"`
	Time      models.TimeOfDay `db:"time"`
	Name      string           `db:"name"`
	Phone     string           `db:"phone"`
	PhotoPath string           `db:"photo_path"`
}

// Store persists clients, appointments and schedule days.
//
// Slot uniqueness is the store's invariant: for any (date, time) at most one
// non-cancelled appointment exists, and CreateAppointment enforces it with an
// atomic conditional insert rather than a separate existence check, since
// handler goroutines run concurrently.
type Store interface {
	// IsSlotTaken reports whether a non-cancelled appointment exists at
	// exactly (date, t).
	IsSlotTaken(ctx context.Context, date time.Time, t models.TimeOfDay) (bool, error)

	// CreateAppointment persists the client and the appointment as one unit.
	// Returns ErrSlotTaken when the slot is occupied; nothing is written then.
	CreateAppointment(ctx context.Context, in ClientInput, date time.Time, t models.TimeOfDay) (*models.Appointment, error)

	// CancelAppointment flips the cancellation flag. ErrNotFound on unknown id.
	CancelAppointment(ctx context.Context, id int64) error

	// ListAppointments returns non-cancelled appointments with client fields,
	// ordered by date then time, within [from, to].
	ListAppointments(ctx context.Context, from, to time.Time) ([]AppointmentView, error)

	// ListSchedule returns schedule rows within [from, to], date then start
	// time ascending. A working day occupies one row per bookable slot.
	ListSchedule(ctx context.Context, from, to time.Time) ([]models.ScheduleDay, error)

	// ReplaceScheduleDay deletes any rows for date and inserts one working
	// row per slot. Idempotent under repeated identical calls. An empty
	// slot list leaves the date with no rows at all.
	ReplaceScheduleDay(ctx context.Context, date time.Time, slots []models.TimeRange) error

	// MarkDayOff replaces the date's rows with a single non-working marker.
	MarkDayOff(ctx context.Context, date time.Time) error

	// MarkLearningDay replaces the date's rows with a learning-day marker,
	// which is excluded from client availability.
	MarkLearningDay(ctx context.Context, date time.Time) error

	// AvailableTimes returns the bookable ranges for date: working,
	// non-learning rows whose start time carries no appointment, start
	// ascending. A date without schedule rows yields an empty slice.
	AvailableTimes(ctx context.Context, date time.Time) ([]models.TimeRange, error)
}
