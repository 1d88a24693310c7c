package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/9304065865a/podolog/internal/models"
)

// memoryStore mirrors the Postgres semantics in process memory. Used by
// tests and development runs, same as the in-memory session manager.
type memoryStore struct {
	mu           sync.RWMutex
	nextID       int64
	clients      []models.Client
	appointments []models.Appointment
	schedule     []models.ScheduleDay
}

// NewMemory constructs an empty in-memory Store.
func NewMemory() Store {
	return &memoryStore{nextID: 1}
}

func (s *memoryStore) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *memoryStore) slotTakenLocked(date time.Time, t models.TimeOfDay) bool {
	for _, a := range s.appointments {
		if a.Date.Equal(date) && a.Time == t && !a.IsCancelled {
			return true
		}
	}
	return false
}

func (s *memoryStore) IsSlotTaken(_ context.Context, date time.Time, t models.TimeOfDay) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slotTakenLocked(models.DateOnly(date), t), nil
}

func (s *memoryStore) CreateAppointment(_ context.Context, in ClientInput, date time.Time, t models.TimeOfDay) (*models.Appointment, error) {
	date = models.DateOnly(date)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slotTakenLocked(date, t) {
		return nil, ErrSlotTaken
	}

	client := models.Client{
		ID:                 s.id(),
		Name:               in.Name,
		Phone:              in.Phone,
		ProblemDescription: in.ProblemDescription,
		PhotoPath:          in.PhotoPath,
		CreatedAt:          time.Now().UTC(),
	}
	s.clients = append(s.clients, client)

	appt := models.Appointment{
		ID:        s.id(),
		ClientID:  client.ID,
		Date:      date,
		Time:      t,
		CreatedAt: client.CreatedAt,
	}
	s.appointments = append(s.appointments, appt)
	return &appt, nil
}

func (s *memoryStore) CancelAppointment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID == id && !s.appointments[i].IsCancelled {
			s.appointments[i].IsCancelled = true
			return nil
		}
	}
	return ErrNotFound
}

func (s *memoryStore) ListAppointments(_ context.Context, from, to time.Time) ([]AppointmentView, error) {
	from, to = models.DateOnly(from), models.DateOnly(to)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []AppointmentView{}
	for _, a := range s.appointments {
		if a.IsCancelled || a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		view := AppointmentView{ID: a.ID, Date: a.Date, Time: a.Time}
		for _, c := range s.clients {
			if c.ID == a.ClientID {
				view.Name, view.Phone, view.PhotoPath = c.Name, c.Phone, c.PhotoPath
				break
			}
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (s *memoryStore) ListSchedule(_ context.Context, from, to time.Time) ([]models.ScheduleDay, error) {
	from, to = models.DateOnly(from), models.DateOnly(to)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ScheduleDay{}
	for _, d := range s.schedule {
		if d.Date.Before(from) || d.Date.After(to) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (s *memoryStore) ReplaceScheduleDay(_ context.Context, date time.Time, slots []models.TimeRange) error {
	date = models.DateOnly(date)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropDayLocked(date)
	for _, slot := range slots {
		s.schedule = append(s.schedule, models.ScheduleDay{
			ID:           s.id(),
			Date:         date,
			StartTime:    slot.Start,
			EndTime:      slot.End,
			IsWorkingDay: true,
		})
	}
	return nil
}

func (s *memoryStore) MarkDayOff(_ context.Context, date time.Time) error {
	s.markDay(models.DateOnly(date), false)
	return nil
}

func (s *memoryStore) MarkLearningDay(_ context.Context, date time.Time) error {
	s.markDay(models.DateOnly(date), true)
	return nil
}

func (s *memoryStore) markDay(date time.Time, learning bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropDayLocked(date)
	s.schedule = append(s.schedule, models.ScheduleDay{
		ID:            s.id(),
		Date:          date,
		IsWorkingDay:  false,
		IsLearningDay: learning,
	})
}

func (s *memoryStore) dropDayLocked(date time.Time) {
	kept := s.schedule[:0]
	for _, d := range s.schedule {
		if !d.Date.Equal(date) {
			kept = append(kept, d)
		}
	}
	s.schedule = kept
}

func (s *memoryStore) AvailableTimes(_ context.Context, date time.Time) ([]models.TimeRange, error) {
	date = models.DateOnly(date)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.TimeRange{}
	for _, d := range s.schedule {
		if !d.Date.Equal(date) || !d.IsWorkingDay || d.IsLearningDay {
			continue
		}
		if s.slotTakenLocked(date, d.StartTime) {
			continue
		}
		out = append(out, models.TimeRange{Start: d.StartTime, End: d.EndTime})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}
