package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"log/slog"

	"github.com/9304065865a/podolog/core/logger"
	"github.com/9304065865a/podolog/internal/models"
)

// slotUniqueIndex is the partial unique index enforcing one non-cancelled
// appointment per (date, time). See migrations/000001_init.up.sql.
const slotUniqueIndex = "appointments_slot_key"

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgres returns a Store backed by Postgres via sqlx.
func NewPostgres(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) IsSlotTaken(ctx context.Context, date time.Time, t models.TimeOfDay) (bool, error) {
	var taken bool
	err := s.db.GetContext(ctx, &taken,
		`SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE date = $1 AND time = $2 AND NOT is_cancelled
		)`, models.DateOnly(date), t)
	if err != nil {
		return false, fmt.Errorf("slot lookup: %w", err)
	}
	return taken, nil
}

func (s *postgresStore) CreateAppointment(ctx context.Context, in ClientInput, date time.Time, t models.TimeOfDay) (*models.Appointment, error) {
	date = models.DateOnly(date)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var clientID int64
	err = tx.GetContext(ctx, &clientID,
		`INSERT INTO clients (name, phone, problem_description, photo_path)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		in.Name, in.Phone, in.ProblemDescription, in.PhotoPath)
	if err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}

	appt := &models.Appointment{ClientID: clientID, Date: date, Time: t}
	err = tx.GetContext(ctx, appt,
		`INSERT INTO appointments (client_id, date, time)
		 VALUES ($1, $2, $3)
		 RETURNING id, client_id, date, time, is_cancelled, created_at`,
		clientID, date, t)
	if err != nil {
		if isSlotConflict(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	logger.SVCAppointments.Info("appointment created",
		slog.String("event", "appointment.create"),
		slog.Int64("appointment_id", appt.ID),
		slog.Int64("client_id", clientID),
		slog.String("date", date.Format(models.DateISO)),
		slog.String("slot", t.String()),
	)
	return appt, nil
}

func (s *postgresStore) CancelAppointment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE appointments SET is_cancelled = TRUE WHERE id = $1 AND NOT is_cancelled`, id)
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	logger.SVCAppointments.Info("appointment cancelled",
		slog.String("event", "appointment.cancel"),
		slog.Int64("appointment_id", id),
	)
	return nil
}

func (s *postgresStore) ListAppointments(ctx context.Context, from, to time.Time) ([]AppointmentView, error) {
	out := []AppointmentView{}
	err := s.db.SelectContext(ctx, &out,
		`SELECT a.id, a.date, a.time, c.name, c.phone, c.photo_path
		 FROM appointments a
		 JOIN clients c ON c.id = a.client_id
		 WHERE a.date BETWEEN $1 AND $2 AND NOT a.is_cancelled
		 ORDER BY a.date, a.time`,
		models.DateOnly(from), models.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

func (s *postgresStore) ListSchedule(ctx context.Context, from, to time.Time) ([]models.ScheduleDay, error) {
	out := []models.ScheduleDay{}
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, date, start_time, end_time, is_working_day, is_learning_day
		 FROM schedule_days
		 WHERE date BETWEEN $1 AND $2
		 ORDER BY date, start_time`,
		models.DateOnly(from), models.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	return out, nil
}

// ReplaceScheduleDay implements replace semantics: prior rows for the date
// are removed and one working row per slot is inserted, all in one
// transaction.
func (s *postgresStore) ReplaceScheduleDay(ctx context.Context, date time.Time, slots []models.TimeRange) error {
	date = models.DateOnly(date)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_days WHERE date = $1`, date); err != nil {
		return fmt.Errorf("delete schedule day: %w", err)
	}
	for _, slot := range slots {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO schedule_days (date, start_time, end_time, is_working_day, is_learning_day)
			 VALUES ($1, $2, $3, TRUE, FALSE)`,
			date, slot.Start, slot.End)
		if err != nil {
			return fmt.Errorf("insert schedule slot: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	logger.SVCSchedule.Info("schedule day replaced",
		slog.String("event", "schedule.replace"),
		slog.String("date", date.Format(models.DateISO)),
		slog.Int("slots", len(slots)),
	)
	return nil
}

func (s *postgresStore) MarkDayOff(ctx context.Context, date time.Time) error {
	return s.markDay(ctx, date, false)
}

func (s *postgresStore) MarkLearningDay(ctx context.Context, date time.Time) error {
	return s.markDay(ctx, date, true)
}

// markDay replaces the date's rows with a single non-working marker row.
func (s *postgresStore) markDay(ctx context.Context, date time.Time, learning bool) error {
	date = models.DateOnly(date)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_days WHERE date = $1`, date); err != nil {
		return fmt.Errorf("delete schedule day: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO schedule_days (date, start_time, end_time, is_working_day, is_learning_day)
		 VALUES ($1, '00:00', '00:00', FALSE, $2)`,
		date, learning)
	if err != nil {
		return fmt.Errorf("insert day marker: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	logger.SVCSchedule.Info("day marked",
		slog.String("event", "schedule.mark"),
		slog.String("date", date.Format(models.DateISO)),
		slog.Bool("learning", learning),
	)
	return nil
}

func (s *postgresStore) AvailableTimes(ctx context.Context, date time.Time) ([]models.TimeRange, error) {
	rows := []models.ScheduleDay{}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, date, start_time, end_time, is_working_day, is_learning_day
		 FROM schedule_days s
		 WHERE s.date = $1 AND s.is_working_day AND NOT s.is_learning_day
		   AND NOT EXISTS (
			SELECT 1 FROM appointments a
			WHERE a.date = s.date AND a.time = s.start_time AND NOT a.is_cancelled
		   )
		 ORDER BY s.start_time`,
		models.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("available times: %w", err)
	}
	out := make([]models.TimeRange, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.TimeRange{Start: r.StartTime, End: r.EndTime})
	}
	return out, nil
}

func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == slotUniqueIndex
	}
	return false
}
