// Package models holds the persisted entities of the booking domain and the
// calendar primitives they are built from.
package models

import "time"

// Client is a person who booked (or is booking) a visit. Created together
// with the first appointment; never mutated afterwards.
type Client struct {
	ID                 int64     `db:"id"`
	Name               string    `db:"name"`
	Phone              string    `db:"phone"`
	ProblemDescription string    `db:"problem_description"`
	PhotoPath          string    `db:"photo_path"`
	CreatedAt          time.Time `db:"created_at"`
}

// Appointment occupies one (date, time) slot. Cancellation flips a flag
// instead of deleting the row, keeping the booking history append-only.
type Appointment struct {
	ID          int64     `db:"id"`
	ClientID    int64     `db:"client_id"`
	Date        time.Time `db:"date"`
	Time        TimeOfDay `db:"time"`
	IsCancelled bool      `db:"is_cancelled"`
	CreatedAt   time.Time `db:"created_at"`
}

// ScheduleDay is one offered slot on a working day, or a marker row for a
// day off / learning day. Editing a date replaces its rows wholesale.
type ScheduleDay struct {
	ID            int64     `db:"id"`
	Date          time.Time `db:"date"`
	StartTime     TimeOfDay `db:"start_time"`
	EndTime       TimeOfDay `db:"end_time"`
	IsWorkingDay  bool      `db:"is_working_day"`
	IsLearningDay bool      `db:"is_learning_day"`
}
